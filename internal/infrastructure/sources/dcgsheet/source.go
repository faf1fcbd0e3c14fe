// Package dcgsheet fetches the hand-curated merchant spreadsheet, published
// as a CSV export. Rows there are trusted: they carry explicit merchant ids
// that seed the name registry before the API sources are merged in.
package dcgsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"explore-sync.backend/internal/config"
	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/internal/infrastructure/sources"
	"explore-sync.backend/internal/usecases"
	"explore-sync.backend/pkg/logger"
)

// column indices of the published sheet
const (
	colMerchantID = iota
	colName
	colAddress1
	colAddress2
	colCity
	colTerritory
	colLatitude
	colLongitude
	colType
	colLogo
	colWebsite
	colPhone
	colPaymentMethod
	columnCount
)

// MerchantSource reads the curated sheet.
type MerchantSource struct {
	httpClient *http.Client
	url        string
	registry   *usecases.NameRegistry
}

func NewMerchantSource(cfg config.DCGSheetConfig, registry *usecases.NameRegistry) *MerchantSource {
	url := cfg.URL
	if cfg.GID != "" && url != "" {
		url = fmt.Sprintf("%s/export?format=csv&gid=%s", strings.TrimSuffix(url, "/"), cfg.GID)
	}
	return &MerchantSource{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		url:        url,
		registry:   registry,
	}
}

func (s *MerchantSource) Source() entities.Source {
	return entities.SourceDCG
}

func (s *MerchantSource) Fetch(ctx context.Context) (usecases.SourceResult, error) {
	log := logger.WithContext(ctx)

	if s.url == "" {
		log.Warn("curated sheet url not configured, skipping source")
		return usecases.SourceResult{Source: entities.SourceDCG}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return usecases.SourceResult{}, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return usecases.SourceResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return usecases.SourceResult{}, fmt.Errorf("dcg sheet: status %d", resp.StatusCode)
	}

	locations, skipped, err := s.parse(resp.Body)
	if err != nil {
		return usecases.SourceResult{}, err
	}

	log.Info("fetched curated sheet",
		zap.Int("locations", len(locations)),
		zap.Int("skippedRows", skipped))
	return usecases.SourceResult{Source: entities.SourceDCG, Locations: locations}, nil
}

func (s *MerchantSource) parse(r io.Reader) ([]entities.MerchantLocation, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var out []entities.MerchantLocation
	skipped := 0
	header := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return out, skipped, nil
		}
		if err != nil {
			return nil, 0, fmt.Errorf("dcg sheet: %w", err)
		}
		if header {
			header = false
			continue
		}
		loc, ok := s.parseRow(row)
		if !ok {
			skipped++
			continue
		}
		out = append(out, loc)
	}
}

func (s *MerchantSource) parseRow(row []string) (entities.MerchantLocation, bool) {
	if len(row) < columnCount {
		return entities.MerchantLocation{}, false
	}
	name := strings.TrimSpace(row[colName])
	if name == "" {
		return entities.MerchantLocation{}, false
	}

	s.registry.Register(name, strings.TrimSpace(row[colLogo]), strings.TrimSpace(row[colMerchantID]))

	loc := entities.MerchantLocation{
		MerchantID:   strings.TrimSpace(row[colMerchantID]),
		SourceID:     strings.TrimSpace(row[colMerchantID]),
		Source:       entities.SourceDCG,
		Name:         name,
		Address1:     strings.TrimSpace(row[colAddress1]),
		Address2:     strings.TrimSpace(row[colAddress2]),
		City:         strings.TrimSpace(row[colCity]),
		Territory:    sources.NormalizeTerritory(row[colTerritory]),
		Latitude:     sources.ParseCoordinate(row[colLatitude]),
		Longitude:    sources.ParseCoordinate(row[colLongitude]),
		Type:         parseType(row[colType]),
		LogoLocation: strings.TrimSpace(row[colLogo]),
		Website:      strings.TrimSpace(row[colWebsite]),
		Phone:        sources.CleanPhone(row[colPhone]),
		PaymentMeth:  strings.TrimSpace(row[colPaymentMethod]),
		Active:       true,
	}
	if !loc.Valid() {
		return entities.MerchantLocation{}, false
	}
	return loc, true
}

func parseType(raw string) entities.LocationType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "online":
		return entities.LocationTypeOnline
	case "both":
		return entities.LocationTypeBoth
	default:
		return entities.LocationTypePhysical
	}
}
