package usecases

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"explore-sync.backend/internal/domain/entities"
	domainerrors "explore-sync.backend/internal/domain/errors"
	"explore-sync.backend/internal/domain/repositories"
	"explore-sync.backend/pkg/logger"
	"explore-sync.backend/pkg/utils"
)

// SourceResult is what a merchant connector hands back from one fetch:
// the normalized locations plus the names of merchants the upstream has
// disabled since the last run.
type SourceResult struct {
	Source    entities.Source
	Locations []entities.MerchantLocation
	Disabled  []string
}

// MerchantSource is one upstream merchant feed.
type MerchantSource interface {
	Source() entities.Source
	Fetch(ctx context.Context) (SourceResult, error)
}

// AtmSource is the ATM locator feed. ATMs skip the merge engine.
type AtmSource interface {
	Fetch(ctx context.Context) ([]entities.AtmLocation, error)
}

// RunLock serializes pipeline runs across instances and carries the
// cooperative cancel flag an operator can raise mid-run.
type RunLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
	Canceled(ctx context.Context) (bool, error)
	ClearCancel(ctx context.Context) error
}

// ArtifactPublisher packages the populated artifact database and ships it.
// It reports the artifact checksum and whether the upload was skipped
// because the remote already holds an identical artifact.
type ArtifactPublisher interface {
	Publish(ctx context.Context) (checksum string, skipped bool, err error)
}

// Notifier delivers the run report to the ops channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// LocationExporter writes a debug copy of the merged output alongside the
// artifact. Export failures never fail the run.
type LocationExporter interface {
	Export(ctx context.Context, locations []entities.MerchantLocation) error
}

// SyncUsecase runs the full pipeline: fetch every source, merge, diff
// against the previous run, persist, publish, and report.
type SyncUsecase struct {
	sources   []MerchantSource
	atmSource AtmSource
	resolver  *MergeResolver
	differ    *DiffReporter

	locationRepo repositories.LocationRepository
	providerRepo repositories.GiftCardProviderRepository
	matchRepo    repositories.MatchAuditRepository
	atmRepo      repositories.AtmRepository
	snapshotRepo repositories.SnapshotRepository
	runRepo      repositories.SyncRunRepository

	lock      RunLock
	publisher ArtifactPublisher
	notifier  Notifier
	exporter  LocationExporter

	batchSize int
}

// SetExporter enables the optional debug export of merged locations.
func (u *SyncUsecase) SetExporter(e LocationExporter) {
	u.exporter = e
}

func NewSyncUsecase(
	sources []MerchantSource,
	atmSource AtmSource,
	resolver *MergeResolver,
	differ *DiffReporter,
	locationRepo repositories.LocationRepository,
	providerRepo repositories.GiftCardProviderRepository,
	matchRepo repositories.MatchAuditRepository,
	atmRepo repositories.AtmRepository,
	snapshotRepo repositories.SnapshotRepository,
	runRepo repositories.SyncRunRepository,
	lock RunLock,
	publisher ArtifactPublisher,
	notifier Notifier,
	batchSize int,
) *SyncUsecase {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &SyncUsecase{
		sources:      sources,
		atmSource:    atmSource,
		resolver:     resolver,
		differ:       differ,
		locationRepo: locationRepo,
		providerRepo: providerRepo,
		matchRepo:    matchRepo,
		atmRepo:      atmRepo,
		snapshotRepo: snapshotRepo,
		runRepo:      runRepo,
		lock:         lock,
		publisher:    publisher,
		notifier:     notifier,
		batchSize:    batchSize,
	}
}

// Run executes one pipeline run end to end. A concurrent run on another
// instance returns ErrSyncInProgress without touching any state. The run
// row is recorded whatever the outcome; notification failures never fail
// the run.
func (u *SyncUsecase) Run(ctx context.Context) (*entities.SyncReport, error) {
	log := logger.WithContext(ctx)

	acquired, err := u.lock.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if !acquired {
		log.Warn("sync already running elsewhere, skipping")
		u.recordRun(ctx, entities.SyncRunStatusSkipped, nil, domainerrors.ErrSyncInProgress)
		return nil, domainerrors.ErrSyncInProgress
	}
	defer func() {
		if err := u.lock.Release(ctx); err != nil {
			log.Error("failed to release sync lock", zap.Error(err))
		}
	}()
	if err := u.lock.ClearCancel(ctx); err != nil {
		return nil, err
	}

	report, err := u.run(ctx)
	switch {
	case err == nil:
		u.recordRun(ctx, entities.SyncRunStatusSucceeded, report, nil)
	case err == domainerrors.ErrSyncCanceled:
		log.Warn("sync canceled by operator")
		u.recordRun(ctx, entities.SyncRunStatusCanceled, report, err)
	default:
		log.Error("sync run failed", zap.Error(err))
		u.recordRun(ctx, entities.SyncRunStatusFailed, report, err)
	}
	return report, err
}

func (u *SyncUsecase) run(ctx context.Context) (*entities.SyncReport, error) {
	log := logger.WithContext(ctx)
	startedAt := time.Now()

	results, atms, err := u.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r.Locations)
	}
	if total == 0 {
		return nil, domainerrors.ErrNoSourceData
	}

	order := make([]entities.Source, 0, len(results))
	lists := make([][]entities.MerchantLocation, 0, len(results))
	for _, r := range results {
		order = append(order, r.Source)
		lists = append(lists, r.Locations)
	}

	merged := u.resolver.CombineAll(ctx, lists...)

	report := entities.NewSyncReport(order...)
	report.StartedAt = startedAt
	report.TotalLocations = len(merged.Locations)
	report.TotalMerchants = countDistinctMerchants(merged.Locations)
	report.MergedLocations = countMergedLocations(merged.Locations)
	report.TotalAtms = len(atms)

	for _, r := range results {
		dsr := entities.DataSourceReport{
			Source:            r.Source,
			Merchants:         countDistinctNames(r.Locations),
			Locations:         len(r.Locations),
			DisabledMerchants: r.Disabled,
		}
		previous, err := u.snapshotRepo.PreviousNames(ctx, r.Source)
		if err != nil {
			log.Warn("no previous snapshot for source, skipping diff",
				zap.String("source", string(r.Source)), zap.Error(err))
		} else {
			diff := u.differ.Diff(previous, distinctNames(r.Locations))
			dsr.NewMerchants = diff.Added
			dsr.RemovedMerchants = diff.Removed
		}
		report.SetDataSourceReport(dsr)
	}

	if err := u.persist(ctx, merged, atms); err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}

	if u.exporter != nil {
		if err := u.exporter.Export(ctx, merged.Locations); err != nil {
			log.Warn("debug export failed", zap.Error(err))
		}
	}

	checksum, skipped, err := u.publisher.Publish(ctx)
	if err != nil {
		report.FinishedAt = time.Now()
		return report, err
	}
	report.Checksum = checksum
	if skipped {
		log.Info("artifact unchanged, upload skipped", zap.String("checksum", checksum))
	}

	report.FinishedAt = time.Now()

	if u.notifier != nil {
		if err := u.notifier.Notify(ctx, report.String()); err != nil {
			log.Error("failed to deliver sync report", zap.Error(err))
		}
	}

	log.Info("sync run finished",
		zap.Int("merchants", report.TotalMerchants),
		zap.Int("locations", report.TotalLocations),
		zap.Int("atms", report.TotalAtms),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)))
	return report, nil
}

// fetchAll pulls every source concurrently. Any single source failing
// fails the whole run; a stale artifact beats a partial one.
func (u *SyncUsecase) fetchAll(ctx context.Context) ([]SourceResult, []entities.AtmLocation, error) {
	g, gctx := errgroup.WithContext(ctx)

	results := make([]SourceResult, len(u.sources))
	for i, src := range u.sources {
		i, src := i, src // go <1.22 loop semantics: keep per-iteration values
		g.Go(func() error {
			res, err := src.Fetch(gctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	var atms []entities.AtmLocation
	if u.atmSource != nil {
		g.Go(func() error {
			var err error
			atms, err = u.atmSource.Fetch(gctx)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, atms, nil
}

// persist writes the merged output in batches, checking the cancel flag
// between batches so an operator can abort a long write.
func (u *SyncUsecase) persist(ctx context.Context, merged MergeResult, atms []entities.AtmLocation) error {
	if err := u.locationRepo.DeleteAll(ctx); err != nil {
		return err
	}
	for _, batch := range utils.Chunk(merged.Locations, u.batchSize) {
		if canceled, err := u.lock.Canceled(ctx); err != nil {
			return err
		} else if canceled {
			return domainerrors.ErrSyncCanceled
		}
		if err := u.locationRepo.SaveBatch(ctx, batch); err != nil {
			return err
		}
	}
	if err := u.providerRepo.ReplaceAll(ctx, merged.Providers); err != nil {
		return err
	}
	if u.matchRepo != nil {
		if err := u.matchRepo.ReplaceAll(ctx, merged.Matches); err != nil {
			return err
		}
	}
	if u.atmRepo != nil {
		if err := u.atmRepo.ReplaceAll(ctx, atms); err != nil {
			return err
		}
	}
	return nil
}

func (u *SyncUsecase) recordRun(ctx context.Context, status entities.SyncRunStatus, report *entities.SyncReport, runErr error) {
	if u.runRepo == nil {
		return
	}
	run := &entities.SyncRun{
		ID:         utils.GenerateUUIDv7(),
		Status:     status,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}
	if report != nil {
		run.Checksum = report.Checksum
		run.TotalMerchants = report.TotalMerchants
		run.TotalLocations = report.TotalLocations
		run.MergedLocations = report.MergedLocations
		run.TotalAtms = report.TotalAtms
		run.Report = report.String()
		run.StartedAt = report.StartedAt
		run.FinishedAt = report.FinishedAt
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}
	if err := u.runRepo.Create(ctx, run); err != nil {
		logger.WithContext(ctx).Error("failed to record sync run", zap.Error(err))
	}
}

func distinctNames(list []entities.MerchantLocation) []string {
	seen := make(map[string]bool, len(list))
	var out []string
	for i := range list {
		if !seen[list[i].Name] {
			seen[list[i].Name] = true
			out = append(out, list[i].Name)
		}
	}
	return out
}

func countDistinctNames(list []entities.MerchantLocation) int {
	seen := make(map[string]bool, len(list))
	for i := range list {
		seen[list[i].Name] = true
	}
	return len(seen)
}

func countDistinctMerchants(list []entities.MerchantLocation) int {
	seen := make(map[string]bool, len(list))
	for i := range list {
		seen[list[i].MerchantID] = true
	}
	return len(seen)
}

func countMergedLocations(list []entities.MerchantLocation) int {
	n := 0
	for i := range list {
		if list[i].Merged {
			n++
		}
	}
	return n
}
