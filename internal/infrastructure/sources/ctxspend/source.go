package ctxspend

import (
	"context"
	"strings"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/internal/infrastructure/sources"
	"explore-sync.backend/internal/usecases"
	"explore-sync.backend/pkg/logger"
)

// MerchantSource adapts the CTX catalog into normalized location records.
type MerchantSource struct {
	client   *Client
	registry *usecases.NameRegistry
}

func NewMerchantSource(client *Client, registry *usecases.NameRegistry) *MerchantSource {
	return &MerchantSource{client: client, registry: registry}
}

func (s *MerchantSource) Source() entities.Source {
	return entities.SourceCTX
}

// Fetch pulls the whole catalog. Disabled merchants are reported but not
// emitted. CTX marks some merchants online even when they carry street
// addresses; those are promoted so their locations survive the merge.
func (s *MerchantSource) Fetch(ctx context.Context) (usecases.SourceResult, error) {
	log := logger.WithContext(ctx)

	merchants, err := s.client.AllMerchants(ctx)
	if err != nil {
		return usecases.SourceResult{}, err
	}

	result := usecases.SourceResult{Source: entities.SourceCTX}
	for _, m := range merchants {
		if !m.Enabled {
			result.Disabled = append(result.Disabled, m.Name)
			continue
		}
		s.registry.Register(m.Name, m.LogoURL, "")
		result.Locations = append(result.Locations, s.toLocations(&m)...)
	}

	log.Info("fetched ctx catalog",
		zap.Int("merchants", len(merchants)),
		zap.Int("locations", len(result.Locations)),
		zap.Int("disabled", len(result.Disabled)))
	return result, nil
}

// addressPlaceholder marks rows where the upstream shipped its form
// placeholder instead of a street address.
const addressPlaceholder = "Address 1"

func (s *MerchantSource) toLocations(m *apiMerchant) []entities.MerchantLocation {
	if strings.TrimSpace(m.Name) == "" {
		return nil
	}
	locType := locationType(m)

	base := entities.MerchantLocation{
		SourceID:          m.ID,
		Source:            entities.SourceCTX,
		Name:              m.Name,
		Website:           m.Website,
		LogoLocation:      m.LogoURL,
		CoverImage:        m.CardImageURL,
		PaymentMeth:       "gift card",
		Active:            true,
		Type:              locType,
		RedeemType:        "barcode",
		SavingsPercentage: null.IntFrom(m.SavingsPercentage),
		DenominationsType: entities.DenominationsType(m.Denomination),
	}
	if m.Deeplink != "" {
		base.Deeplink = null.StringFrom(m.Deeplink)
	}

	if len(m.Locations) == 0 {
		return []entities.MerchantLocation{base}
	}

	out := make([]entities.MerchantLocation, 0, len(m.Locations))
	for _, l := range m.Locations {
		loc := base.Clone()
		loc.Address1 = strings.TrimSpace(l.Address1)
		if strings.Contains(loc.Address1, addressPlaceholder) {
			continue
		}
		loc.Address2 = strings.TrimSpace(l.Address2)
		loc.City = strings.TrimSpace(l.City)
		loc.Territory = sources.NormalizeTerritory(l.State)
		loc.Phone = sources.CleanPhone(l.Phone)
		loc.Latitude = sources.ParseCoordinate(l.Latitude)
		loc.Longitude = sources.ParseCoordinate(l.Longitude)
		if loc.Valid() {
			out = append(out, loc)
		}
	}
	return out
}

// locationType promotes online merchants that nonetheless ship physical
// addresses.
func locationType(m *apiMerchant) entities.LocationType {
	t := entities.LocationType(strings.ToLower(m.Type))
	if t != entities.LocationTypeOnline {
		return t
	}
	for _, l := range m.Locations {
		if strings.TrimSpace(l.Address1) != "" {
			return entities.LocationTypeBoth
		}
	}
	return entities.LocationTypeOnline
}
