// Package coinatmradar fetches ATM locations from the CoinATMRadar lite
// API. ATMs come from a single source and bypass the merge engine.
package coinatmradar

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"explore-sync.backend/internal/config"
	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/internal/infrastructure/sources"
	"explore-sync.backend/pkg/logger"
)

type atmResponse struct {
	ATMs []apiATM `json:"atms"`
}

type apiATM struct {
	ID           int     `json:"id"`
	Operator     string  `json:"operator"`
	Manufacturer string  `json:"manufacturer"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Postcode     string  `json:"postcode"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Phone        string  `json:"phone"`
	URL          string  `json:"url"`
	LogoURL      string  `json:"logoUrl"`
	CoverURL     string  `json:"coverUrl"`
	BuyOnly      bool    `json:"buyOnly"`
	SellOnly     bool    `json:"sellOnly"`
}

// AtmSource fetches the ATM list.
type AtmSource struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewAtmSource(cfg config.CoinATMRadarConfig) *AtmSource {
	return &AtmSource{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
	}
}

// Fetch pulls the full ATM list. The lite API authenticates with a
// SHA-512 digest of the key and the request timestamp.
func (s *AtmSource) Fetch(ctx context.Context) ([]entities.AtmLocation, error) {
	log := logger.WithContext(ctx)

	ts := strconv.FormatInt(time.Now().Unix(), 10)
	digest := sha512.Sum512([]byte(s.apiKey + ts))
	reqURL := fmt.Sprintf("%s/%s/json?ts=%s", s.baseURL, hex.EncodeToString(digest[:]), ts)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coinatmradar: status %d", resp.StatusCode)
	}

	var payload atmResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("coinatmradar: %w", err)
	}

	out := make([]entities.AtmLocation, 0, len(payload.ATMs))
	for _, a := range payload.ATMs {
		out = append(out, entities.AtmLocation{
			SourceID:     strconv.Itoa(a.ID),
			Source:       entities.SourceATM,
			Name:         a.Operator,
			Manufacturer: a.Manufacturer,
			Address:      a.Address,
			City:         a.City,
			State:        sources.NormalizeTerritory(a.State),
			Postcode:     a.Postcode,
			Latitude:     nullCoord(a.Lat),
			Longitude:    nullCoord(a.Lon),
			Phone:        sources.CleanPhone(a.Phone),
			Website:      a.URL,
			LogoLocation: a.LogoURL,
			CoverImage:   a.CoverURL,
			BuySell:      buySell(a),
		})
	}

	log.Info("fetched coinatmradar list", zap.Int("atms", len(out)))
	return out, nil
}

func nullCoord(v float64) null.Float64 {
	if v == 0 {
		return null.Float64{}
	}
	return null.Float64From(v)
}

func buySell(a apiATM) string {
	switch {
	case a.BuyOnly:
		return "buy"
	case a.SellOnly:
		return "sell"
	default:
		return "both"
	}
}
