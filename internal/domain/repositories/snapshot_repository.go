package repositories

import (
	"context"

	"explore-sync.backend/internal/domain/entities"
)

// SnapshotRepository reads the previous run's persisted merchant-name sets,
// used by the difference reporter. Implementations resolve the previous
// artifact by filename-date convention.
type SnapshotRepository interface {
	PreviousNames(ctx context.Context, source entities.Source) ([]string, error)
}

// SyncRunRepository records run history (report summary per run).
type SyncRunRepository interface {
	Create(ctx context.Context, run *entities.SyncRun) error
	Latest(ctx context.Context) (*entities.SyncRun, error)
}
