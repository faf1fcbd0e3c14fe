package repositories

import (
	"context"

	"gorm.io/gorm"

	"explore-sync.backend/internal/domain/entities"
	"explore-sync.backend/internal/domain/repositories"
	"explore-sync.backend/internal/infrastructure/models"
)

// giftCardProviderRepo implements repositories.GiftCardProviderRepository
type giftCardProviderRepo struct {
	db *gorm.DB
}

// NewGiftCardProviderRepository creates a new attribution repository
func NewGiftCardProviderRepository(db *gorm.DB) repositories.GiftCardProviderRepository {
	return &giftCardProviderRepo{db: db}
}

// ReplaceAll swaps the attribution table for the given rows in one
// transaction, so readers never observe a half-written table.
func (r *giftCardProviderRepo) ReplaceAll(ctx context.Context, providers []entities.GiftCardProvider) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM gift_card_providers").Error; err != nil {
			return err
		}
		if len(providers) == 0 {
			return nil
		}
		rows := make([]models.GiftCardProvider, 0, len(providers))
		for i := range providers {
			p := &providers[i]
			rows = append(rows, models.GiftCardProvider{
				MerchantID:        p.MerchantID,
				Provider:          string(p.Provider),
				SourceID:          p.SourceID,
				Active:            p.Active,
				RedeemType:        p.RedeemType,
				SavingsPercentage: p.SavingsPercentage,
				DenominationsType: string(p.DenominationsType),
			})
		}
		return tx.Create(&rows).Error
	})
}

// CountByProvider counts attribution rows for one upstream.
func (r *giftCardProviderRepo) CountByProvider(ctx context.Context, provider entities.Source) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GiftCardProvider{}).
		Where("provider = ?", string(provider)).
		Count(&count).Error
	return count, err
}
