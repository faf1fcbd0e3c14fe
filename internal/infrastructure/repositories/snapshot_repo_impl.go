package repositories

import (
	"context"

	"gorm.io/gorm"

	"explore-sync.backend/internal/domain/entities"
	domainerrors "explore-sync.backend/internal/domain/errors"
	"explore-sync.backend/internal/domain/repositories"
	"explore-sync.backend/internal/infrastructure/models"
)

// snapshotRepo implements repositories.SnapshotRepository over the artifact
// database left behind by the previous run. It must be consulted before the
// current run truncates the tables.
type snapshotRepo struct {
	db *gorm.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *gorm.DB) repositories.SnapshotRepository {
	return &snapshotRepo{db: db}
}

// PreviousNames returns the merchant names a source contributed on the
// previous run. An artifact with no rows at all means there is no previous
// snapshot to diff against.
func (r *snapshotRepo) PreviousNames(ctx context.Context, source entities.Source) ([]string, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.MerchantLocation{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, domainerrors.ErrNoSnapshot
	}

	var names []string
	err := r.db.WithContext(ctx).Model(&models.MerchantLocation{}).
		Distinct("merchant_locations.name").
		Joins("JOIN gift_card_providers ON gift_card_providers.merchant_id = merchant_locations.merchant_id").
		Where("gift_card_providers.provider = ?", string(source)).
		Order("merchant_locations.name").
		Pluck("merchant_locations.name", &names).Error
	return names, err
}
