package repositories

import (
	"context"

	"explore-sync.backend/internal/domain/entities"
)

// LocationRepository persists the merged merchant-location list into the
// artifact database.
type LocationRepository interface {
	DeleteAll(ctx context.Context) error
	SaveBatch(ctx context.Context, locations []entities.MerchantLocation) error
	CountBySource(ctx context.Context, source entities.Source) (int64, error)
	DistinctNames(ctx context.Context, source entities.Source) ([]string, error)
}

// GiftCardProviderRepository persists attribution rows.
type GiftCardProviderRepository interface {
	ReplaceAll(ctx context.Context, providers []entities.GiftCardProvider) error
	CountByProvider(ctx context.Context, provider entities.Source) (int64, error)
}

// MatchAuditRepository persists accepted matches for later inspection.
type MatchAuditRepository interface {
	ReplaceAll(ctx context.Context, matches []entities.MatchInfo) error
	List(ctx context.Context, limit int) ([]entities.MatchInfo, error)
}

// AtmRepository persists ATM locations.
type AtmRepository interface {
	ReplaceAll(ctx context.Context, atms []entities.AtmLocation) error
	Count(ctx context.Context) (int64, error)
}
