package repositories

import (
	"context"

	"gorm.io/gorm"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/internal/domain/repositories"
	"explore-sync.backend/internal/infrastructure/models"
)

// atmRepo implements repositories.AtmRepository
type atmRepo struct {
	db *gorm.DB
}

// NewAtmRepository creates a new ATM repository
func NewAtmRepository(db *gorm.DB) repositories.AtmRepository {
	return &atmRepo{db: db}
}

// ReplaceAll swaps the ATM table for the given rows in one transaction.
func (r *atmRepo) ReplaceAll(ctx context.Context, atms []entities.AtmLocation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM atm_locations").Error; err != nil {
			return err
		}
		if len(atms) == 0 {
			return nil
		}
		rows := make([]models.AtmLocation, 0, len(atms))
		for i := range atms {
			a := &atms[i]
			rows = append(rows, models.AtmLocation{
				SourceID:     a.SourceID,
				Source:       string(a.Source),
				Name:         a.Name,
				Manufacturer: a.Manufacturer,
				Address:      a.Address,
				City:         a.City,
				State:        a.State,
				Postcode:     a.Postcode,
				Latitude:     a.Latitude,
				Longitude:    a.Longitude,
				Phone:        a.Phone,
				Website:      a.Website,
				LogoLocation: a.LogoLocation,
				CoverImage:   a.CoverImage,
				BuySell:      a.BuySell,
			})
		}
		return tx.Create(&rows).Error
	})
}

// Count returns the stored ATM count.
func (r *atmRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AtmLocation{}).Count(&count).Error
	return count, err
}
