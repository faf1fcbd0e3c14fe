package jobs

import (
	"context"
	"errors"
	"log"
	"time"

	"explore-sync.backend/internal/domain/entities"
	domainerrors "explore-sync.backend/internal/domain/errors"
	"explore-sync.backend/internal/infrastructure/metrics"
)

// syncRunner is the slice of the sync pipeline the scheduler drives.
type syncRunner interface {
	Run(ctx context.Context) (*entities.SyncReport, error)
}

// SyncSchedulerJob triggers a full aggregation run on a fixed interval.
type SyncSchedulerJob struct {
	runner     syncRunner
	interval   time.Duration
	runOnStart bool
	stop       chan struct{}
}

func NewSyncSchedulerJob(runner syncRunner, interval time.Duration) *SyncSchedulerJob {
	return &SyncSchedulerJob{
		runner:     runner,
		interval:   interval,
		runOnStart: true,
		stop:       make(chan struct{}),
	}
}

func (j *SyncSchedulerJob) Start(ctx context.Context) {
	log.Printf("🕐 Starting sync scheduler (every %s)...", j.interval)

	if j.runOnStart {
		j.runOnce(ctx)
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("⏹️ Sync scheduler stopped (context cancelled)")
			return
		case <-j.stop:
			log.Println("⏹️ Sync scheduler stopped")
			return
		case <-ticker.C:
			j.runOnce(ctx)
		}
	}
}

func (j *SyncSchedulerJob) Stop() {
	close(j.stop)
}

func (j *SyncSchedulerJob) runOnce(ctx context.Context) {
	log.Println("🔄 Starting scheduled sync run...")

	report, err := j.runner.Run(ctx)
	switch {
	case err == nil:
		log.Printf("✅ Sync run completed: %d merchants, %d locations", report.TotalMerchants, report.TotalLocations)
		metrics.ObserveRun(entities.SyncRunStatusSucceeded, report)
	case errors.Is(err, domainerrors.ErrSyncInProgress):
		log.Println("⏭️ Sync already in progress, skipping this interval")
		metrics.ObserveRun(entities.SyncRunStatusSkipped, report)
	case errors.Is(err, domainerrors.ErrSyncCanceled):
		log.Println("⏹️ Sync run cancelled")
		metrics.ObserveRun(entities.SyncRunStatusCanceled, report)
	default:
		log.Printf("❌ Sync run failed: %v", err)
		metrics.ObserveRun(entities.SyncRunStatusFailed, report)
	}
}
