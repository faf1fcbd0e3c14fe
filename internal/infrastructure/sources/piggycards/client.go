// Package piggycards fetches the PiggyCards gift-card catalog.
package piggycards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"explore-sync.backend/internal/config"
)

type catalogResponse struct {
	Data []apiBrand `json:"data"`
}

type apiBrand struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Disabled     bool       `json:"disabled"`
	Image        string     `json:"image"`
	URL          string     `json:"url"`
	Savings      float64    `json:"savings"` // percent
	Denomination string     `json:"denominationType"`
	Stores       []apiStore `json:"stores"`
}

type apiStore struct {
	Address   string  `json:"address"`
	Address2  string  `json:"address2"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	Zip       string  `json:"zip"`
	Phone     string  `json:"phone"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client talks to the PiggyCards brand API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiUser     string
	apiKey      string
	rateLimiter *rate.Limiter
}

// NewClient creates a PiggyCards API client.
func NewClient(cfg config.PiggyCardsConfig) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		apiUser:     cfg.APIUser,
		apiKey:      cfg.APIKey,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 5),
	}
}

// Catalog fetches the full brand list with store locations.
func (c *Client) Catalog(ctx context.Context) ([]apiBrand, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/brands?includeStores=true"

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Api-User", c.apiUser)
		req.Header.Set("X-Api-Key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("piggycards brands: status %d", resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var catalog catalogResponse
		if err := json.Unmarshal(body, &catalog); err != nil {
			return nil, fmt.Errorf("piggycards brands: %w", err)
		}
		return catalog.Data, nil
	}
	return nil, lastErr
}
