// Package ctxspend fetches the CTX gift-card catalog.
package ctxspend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"explore-sync.backend/internal/config"
)

// merchantPage is one page of the CTX merchant listing.
type merchantPage struct {
	Merchants  []apiMerchant `json:"merchants"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
}

type apiMerchant struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Type              string        `json:"type"` // online | physical | both
	Enabled           bool          `json:"enabled"`
	LogoURL           string        `json:"logoUrl"`
	CardImageURL      string        `json:"cardImageUrl"`
	Website           string        `json:"website"`
	Deeplink          string        `json:"deeplink"`
	SavingsPercentage int           `json:"savingsPercentage"` // basis points
	Denomination      string        `json:"denominationType"`
	Locations         []apiLocation `json:"locations"`
}

type apiLocation struct {
	Address1  string `json:"address1"`
	Address2  string `json:"address2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Phone     string `json:"phone"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Client talks to the CTX merchant API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	pageSize    int
	rateLimiter *rate.Limiter
}

// NewClient creates a CTX API client.
func NewClient(cfg config.CTXConfig) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		pageSize:    cfg.PageSize,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 5),
	}
}

// AllMerchants walks every page of the catalog.
func (c *Client) AllMerchants(ctx context.Context) ([]apiMerchant, error) {
	var all []apiMerchant
	for page := 1; ; page++ {
		p, err := c.merchantPage(ctx, page)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Merchants...)
		if p.TotalPages == 0 || page >= p.TotalPages {
			return all, nil
		}
	}
}

func (c *Client) merchantPage(ctx context.Context, page int) (*merchantPage, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("pageSize", strconv.Itoa(c.pageSize))
	reqURL := fmt.Sprintf("%s/merchants?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
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
			lastErr = fmt.Errorf("ctx merchants page %d: status %d", page, resp.StatusCode)
			time.Sleep(time.Duration(attempt*500) * time.Millisecond)
			continue
		}

		var p merchantPage
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("ctx merchants page %d: %w", page, err)
		}
		return &p, nil
	}
	return nil, lastErr
}
