package repositories

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/internal/domain/repositories"
	"explore-sync.backend/internal/infrastructure/models"
)

// locationRepo implements repositories.LocationRepository
type locationRepo struct {
	db *gorm.DB
}

// NewLocationRepository creates a new merchant-location repository
func NewLocationRepository(db *gorm.DB) repositories.LocationRepository {
	return &locationRepo{db: db}
}

// DeleteAll truncates the location table before a fresh run's batches land.
func (r *locationRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("DELETE FROM merchant_locations").Error
}

// SaveBatch inserts one batch of merged locations.
func (r *locationRepo) SaveBatch(ctx context.Context, locations []entities.MerchantLocation) error {
	if len(locations) == 0 {
		return nil
	}
	rows := make([]models.MerchantLocation, 0, len(locations))
	for i := range locations {
		rows = append(rows, toLocationModel(&locations[i]))
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// CountBySource counts stored locations attributed directly to a source.
func (r *locationRepo) CountBySource(ctx context.Context, source entities.Source) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MerchantLocation{}).
		Where("source = ?", string(source)).
		Count(&count).Error
	return count, err
}

// DistinctNames lists the distinct merchant names a source contributed,
// resolved through the attribution table so merged records count for every
// contributing source.
func (r *locationRepo) DistinctNames(ctx context.Context, source entities.Source) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&models.MerchantLocation{}).
		Distinct("merchant_locations.name").
		Joins("JOIN gift_card_providers ON gift_card_providers.merchant_id = merchant_locations.merchant_id").
		Where("gift_card_providers.provider = ?", string(source)).
		Order("merchant_locations.name").
		Pluck("merchant_locations.name", &names).Error
	return names, err
}

func toLocationModel(e *entities.MerchantLocation) models.MerchantLocation {
	schedule := ""
	if e.Schedule != (entities.WeekSchedule{}) {
		if b, err := json.Marshal(e.Schedule); err == nil {
			schedule = string(b)
		}
	}
	return models.MerchantLocation{
		MerchantID:        e.MerchantID,
		SourceID:          e.SourceID,
		Source:            string(e.Source),
		Name:              e.Name,
		Address1:          e.Address1,
		Address2:          e.Address2,
		Address3:          e.Address3,
		Address4:          e.Address4,
		City:              e.City,
		Territory:         e.Territory,
		Website:           e.Website,
		Phone:             e.Phone,
		LogoLocation:      e.LogoLocation,
		CoverImage:        e.CoverImage,
		PaymentMeth:       e.PaymentMeth,
		Deeplink:          e.Deeplink,
		Latitude:          e.Latitude,
		Longitude:         e.Longitude,
		Active:            e.Active,
		Type:              string(e.Type),
		RedeemType:        e.RedeemType,
		SavingsPercentage: e.SavingsPercentage,
		DenominationsType: string(e.DenominationsType),
		Schedule:          schedule,
		Merged:            e.Merged,
	}
}

func toLocationEntity(m *models.MerchantLocation) entities.MerchantLocation {
	e := entities.MerchantLocation{
		MerchantID:        m.MerchantID,
		SourceID:          m.SourceID,
		Source:            entities.Source(m.Source),
		Name:              m.Name,
		Address1:          m.Address1,
		Address2:          m.Address2,
		Address3:          m.Address3,
		Address4:          m.Address4,
		City:              m.City,
		Territory:         m.Territory,
		Website:           m.Website,
		Phone:             m.Phone,
		LogoLocation:      m.LogoLocation,
		CoverImage:        m.CoverImage,
		PaymentMeth:       m.PaymentMeth,
		Deeplink:          m.Deeplink,
		Latitude:          m.Latitude,
		Longitude:         m.Longitude,
		Active:            m.Active,
		Type:              entities.LocationType(m.Type),
		RedeemType:        m.RedeemType,
		SavingsPercentage: m.SavingsPercentage,
		DenominationsType: entities.DenominationsType(m.DenominationsType),
		Merged:            m.Merged,
	}
	if m.Schedule != "" {
		_ = json.Unmarshal([]byte(m.Schedule), &e.Schedule)
	}
	return e
}
