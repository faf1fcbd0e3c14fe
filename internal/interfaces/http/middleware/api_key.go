package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"explore-sync.backend/pkg/crypto"
)

// APIKeyHeader is the header carrying the operator API key
const APIKeyHeader = "X-Api-Key"

// APIKeyMiddleware guards the sync control endpoints. The key is compared
// against a bcrypt hash so the plaintext never lives in configuration.
func APIKeyMiddleware(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keyHash == "" {
			log.Printf("[APIKeyMiddleware] Request to %s rejected: no API key hash configured", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "sync API is not configured",
			})
			return
		}

		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "API key is required",
			})
			return
		}

		if !crypto.CheckPassword(key, keyHash) {
			log.Printf("[APIKeyMiddleware] Request to %s failed: invalid API key", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid API key",
			})
			return
		}

		c.Next()
	}
}
