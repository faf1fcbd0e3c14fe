package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"explore-sync.backend/internal/domain/entities"
	domainerrors "explore-sync.backend/internal/domain/errors"
	"explore-sync.backend/internal/domain/repositories"
	"explore-sync.backend/internal/infrastructure/models"
)

// syncRunRepo implements repositories.SyncRunRepository
type syncRunRepo struct {
	db *gorm.DB
}

// NewSyncRunRepository creates a new run-history repository
func NewSyncRunRepository(db *gorm.DB) repositories.SyncRunRepository {
	return &syncRunRepo{db: db}
}

// Create records one finished run.
func (r *syncRunRepo) Create(ctx context.Context, run *entities.SyncRun) error {
	row := models.SyncRun{
		ID:              run.ID,
		Status:          string(run.Status),
		TotalMerchants:  run.TotalMerchants,
		TotalLocations:  run.TotalLocations,
		MergedLocations: run.MergedLocations,
		TotalAtms:       run.TotalAtms,
		Checksum:        run.Checksum,
		Report:          run.Report,
		Error:           run.Error,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// Latest returns the most recently started run.
func (r *syncRunRepo) Latest(ctx context.Context) (*entities.SyncRun, error) {
	var row models.SyncRun
	if err := r.db.WithContext(ctx).Order("started_at DESC").First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.SyncRun{
		ID:              row.ID,
		Status:          entities.SyncRunStatus(row.Status),
		TotalMerchants:  row.TotalMerchants,
		TotalLocations:  row.TotalLocations,
		MergedLocations: row.MergedLocations,
		TotalAtms:       row.TotalAtms,
		Checksum:        row.Checksum,
		Report:          row.Report,
		Error:           row.Error,
		StartedAt:       row.StartedAt,
		FinishedAt:      row.FinishedAt,
	}, nil
}
