package piggycards

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

// MerchantSource adapts the PiggyCards catalog into normalized location
// records. Brands without stores become online merchants.
type MerchantSource struct {
	client   *Client
	registry *usecases.NameRegistry
}

func NewMerchantSource(client *Client, registry *usecases.NameRegistry) *MerchantSource {
	return &MerchantSource{client: client, registry: registry}
}

func (s *MerchantSource) Source() entities.Source {
	return entities.SourcePiggyCards
}

func (s *MerchantSource) Fetch(ctx context.Context) (usecases.SourceResult, error) {
	log := logger.WithContext(ctx)

	brands, err := s.client.Catalog(ctx)
	if err != nil {
		return usecases.SourceResult{}, err
	}

	result := usecases.SourceResult{Source: entities.SourcePiggyCards}
	for _, b := range brands {
		if b.Disabled {
			result.Disabled = append(result.Disabled, b.Name)
			continue
		}
		s.registry.Register(b.Name, b.Image, "")
		result.Locations = append(result.Locations, s.toLocations(&b)...)
	}

	log.Info("fetched piggycards catalog",
		zap.Int("brands", len(brands)),
		zap.Int("locations", len(result.Locations)),
		zap.Int("disabled", len(result.Disabled)))
	return result, nil
}

func (s *MerchantSource) toLocations(b *apiBrand) []entities.MerchantLocation {
	base := entities.MerchantLocation{
		SourceID:          b.ID,
		Source:            entities.SourcePiggyCards,
		Name:              b.Name,
		Website:           b.URL,
		LogoLocation:      b.Image,
		PaymentMeth:       "gift card",
		Active:            true,
		RedeemType:        "barcode",
		SavingsPercentage: null.IntFrom(int(b.Savings * 100)), // percent to basis points
		DenominationsType: entities.DenominationsType(b.Denomination),
	}

	if len(b.Stores) == 0 {
		base.Type = entities.LocationTypeOnline
		return []entities.MerchantLocation{base}
	}

	out := make([]entities.MerchantLocation, 0, len(b.Stores))
	for _, st := range b.Stores {
		loc := base.Clone()
		loc.Type = entities.LocationTypePhysical
		loc.Address1 = strings.TrimSpace(st.Address)
		loc.Address2 = strings.TrimSpace(st.Address2)
		if st.Zip != "" && loc.Address2 == "" {
			loc.Address2 = st.Zip
		}
		loc.City = strings.TrimSpace(st.City)
		loc.Territory = sources.NormalizeTerritory(st.State)
		loc.Phone = sources.CleanPhone(st.Phone)
		if st.Latitude != 0 && st.Longitude != 0 {
			loc.Latitude = null.Float64From(st.Latitude)
			loc.Longitude = null.Float64From(st.Longitude)
		}
		if loc.Valid() {
			out = append(out, loc)
		}
	}
	return out
}
