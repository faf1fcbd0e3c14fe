package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"explore-sync.backend/internal/domain/entities"
	domainerrors "explore-sync.backend/internal/domain/errors"
)

type stubSource struct {
	source entities.Source
	result SourceResult
	err    error
}

func (s *stubSource) Source() entities.Source { return s.source }
func (s *stubSource) Fetch(ctx context.Context) (SourceResult, error) {
	return s.result, s.err
}

type stubAtmSource struct {
	atms []entities.AtmLocation
	err  error
}

func (s *stubAtmSource) Fetch(ctx context.Context) ([]entities.AtmLocation, error) {
	return s.atms, s.err
}

type stubLocationRepo struct {
	deleted bool
	saved   []entities.MerchantLocation
	saveErr error
}

func (r *stubLocationRepo) DeleteAll(ctx context.Context) error { r.deleted = true; return nil }
func (r *stubLocationRepo) SaveBatch(ctx context.Context, locs []entities.MerchantLocation) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, locs...)
	return nil
}
func (r *stubLocationRepo) CountBySource(ctx context.Context, s entities.Source) (int64, error) {
	return int64(len(r.saved)), nil
}
func (r *stubLocationRepo) DistinctNames(ctx context.Context, s entities.Source) ([]string, error) {
	return nil, nil
}

type stubProviderRepo struct {
	saved []entities.GiftCardProvider
}

func (r *stubProviderRepo) ReplaceAll(ctx context.Context, ps []entities.GiftCardProvider) error {
	r.saved = ps
	return nil
}
func (r *stubProviderRepo) CountByProvider(ctx context.Context, p entities.Source) (int64, error) {
	return int64(len(r.saved)), nil
}

type stubMatchRepo struct {
	saved []entities.MatchInfo
}

func (r *stubMatchRepo) ReplaceAll(ctx context.Context, ms []entities.MatchInfo) error {
	r.saved = ms
	return nil
}
func (r *stubMatchRepo) List(ctx context.Context, limit int) ([]entities.MatchInfo, error) {
	return r.saved, nil
}

type stubAtmRepo struct {
	saved []entities.AtmLocation
}

func (r *stubAtmRepo) ReplaceAll(ctx context.Context, atms []entities.AtmLocation) error {
	r.saved = atms
	return nil
}
func (r *stubAtmRepo) Count(ctx context.Context) (int64, error) { return int64(len(r.saved)), nil }

type stubSnapshotRepo struct {
	names map[entities.Source][]string
}

func (r *stubSnapshotRepo) PreviousNames(ctx context.Context, s entities.Source) ([]string, error) {
	if r.names == nil {
		return nil, domainerrors.ErrNoSnapshot
	}
	return r.names[s], nil
}

type stubRunRepo struct {
	runs []*entities.SyncRun
}

func (r *stubRunRepo) Create(ctx context.Context, run *entities.SyncRun) error {
	r.runs = append(r.runs, run)
	return nil
}
func (r *stubRunRepo) Latest(ctx context.Context) (*entities.SyncRun, error) {
	if len(r.runs) == 0 {
		return nil, domainerrors.ErrNotFound
	}
	return r.runs[len(r.runs)-1], nil
}

type stubLock struct {
	acquired      bool
	released      bool
	cancelAfter   int // Canceled returns true from this call count on, 0 = never
	canceledCalls int
}

func (l *stubLock) Acquire(ctx context.Context) (bool, error) { return l.acquired, nil }
func (l *stubLock) Release(ctx context.Context) error         { l.released = true; return nil }
func (l *stubLock) Canceled(ctx context.Context) (bool, error) {
	l.canceledCalls++
	return l.cancelAfter > 0 && l.canceledCalls >= l.cancelAfter, nil
}
func (l *stubLock) ClearCancel(ctx context.Context) error { return nil }

type stubPublisher struct {
	checksum string
	skipped  bool
	err      error
	called   bool
}

func (p *stubPublisher) Publish(ctx context.Context) (string, bool, error) {
	p.called = true
	return p.checksum, p.skipped, p.err
}

type stubNotifier struct {
	messages []string
}

func (n *stubNotifier) Notify(ctx context.Context, msg string) error {
	n.messages = append(n.messages, msg)
	return nil
}

type syncFixture struct {
	usecase   *SyncUsecase
	locations *stubLocationRepo
	providers *stubProviderRepo
	matches   *stubMatchRepo
	atms      *stubAtmRepo
	runs      *stubRunRepo
	lock      *stubLock
	publisher *stubPublisher
	notifier  *stubNotifier
}

func newSyncFixture(sources []MerchantSource, atmSource AtmSource) *syncFixture {
	f := &syncFixture{
		locations: &stubLocationRepo{},
		providers: &stubProviderRepo{},
		matches:   &stubMatchRepo{},
		atms:      &stubAtmRepo{},
		runs:      &stubRunRepo{},
		lock:      &stubLock{acquired: true},
		publisher: &stubPublisher{checksum: "abc123"},
		notifier:  &stubNotifier{},
	}
	f.usecase = NewSyncUsecase(
		sources, atmSource,
		newTestResolver(),
		NewDiffReporter(NewNameRegistry()),
		f.locations, f.providers, f.matches, f.atms,
		&stubSnapshotRepo{}, f.runs,
		f.lock, f.publisher, f.notifier,
		2,
	)
	return f
}

func ctxSource(locs ...entities.MerchantLocation) *stubSource {
	return &stubSource{
		source: entities.SourceCTX,
		result: SourceResult{Source: entities.SourceCTX, Locations: locs},
	}
}

func piggySource(locs ...entities.MerchantLocation) *stubSource {
	return &stubSource{
		source: entities.SourcePiggyCards,
		result: SourceResult{Source: entities.SourcePiggyCards, Locations: locs},
	}
}

func TestSyncRunHappyPath(t *testing.T) {
	f := newSyncFixture(
		[]MerchantSource{
			ctxSource(sourcedLocation("Starbucks", entities.SourceCTX, "ctx-1", 40.71281, -74.00601)),
			piggySource(
				sourcedLocation("Starbucks", entities.SourcePiggyCards, "p-1", 40.71282, -74.00602),
				sourcedLocation("Panera Bread", entities.SourcePiggyCards, "p-2", 34.0522, -118.2437),
			),
		},
		&stubAtmSource{atms: []entities.AtmLocation{{SourceID: "atm-1", Name: "Downtown ATM"}}},
	)

	report, err := f.usecase.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, 2, report.TotalLocations)
	assert.Equal(t, 2, report.TotalMerchants)
	assert.Equal(t, 1, report.MergedLocations)
	assert.Equal(t, 1, report.TotalAtms)

	assert.True(t, f.locations.deleted)
	assert.Len(t, f.locations.saved, 2)
	assert.Len(t, f.providers.saved, 3)
	assert.Len(t, f.atms.saved, 1)
	assert.True(t, f.publisher.called)
	assert.True(t, f.lock.released)

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "Total Merchants")

	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, entities.SyncRunStatusSucceeded, f.runs.runs[0].Status)
	assert.Equal(t, "abc123", f.runs.runs[0].Checksum)
	assert.Equal(t, "abc123", report.Checksum)
}

func TestSyncRunSkippedWhenLocked(t *testing.T) {
	f := newSyncFixture([]MerchantSource{ctxSource()}, nil)
	f.lock.acquired = false

	_, err := f.usecase.Run(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrSyncInProgress)
	assert.False(t, f.locations.deleted)
	assert.False(t, f.publisher.called)

	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, entities.SyncRunStatusSkipped, f.runs.runs[0].Status)
}

func TestSyncRunFailsWhenAllSourcesEmpty(t *testing.T) {
	f := newSyncFixture([]MerchantSource{ctxSource(), piggySource()}, nil)

	_, err := f.usecase.Run(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrNoSourceData)
	assert.False(t, f.locations.deleted)

	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, entities.SyncRunStatusFailed, f.runs.runs[0].Status)
}

func TestSyncRunPropagatesSourceError(t *testing.T) {
	boom := errors.New("upstream 503")
	f := newSyncFixture([]MerchantSource{
		ctxSource(sourcedLocation("Starbucks", entities.SourceCTX, "ctx-1", 40.7128, -74.0060)),
		&stubSource{source: entities.SourcePiggyCards, err: boom},
	}, nil)

	_, err := f.usecase.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, f.locations.deleted)
	assert.True(t, f.lock.released)
}

func TestSyncRunCanceledMidPersist(t *testing.T) {
	var locs []entities.MerchantLocation
	for i := 0; i < 10; i++ {
		locs = append(locs, sourcedLocation("Starbucks", entities.SourceCTX, "ctx-1", 40.0+float64(i), -74.0))
	}
	f := newSyncFixture([]MerchantSource{ctxSource(locs...)}, nil)
	f.lock.cancelAfter = 2

	_, err := f.usecase.Run(context.Background())
	assert.ErrorIs(t, err, domainerrors.ErrSyncCanceled)
	assert.False(t, f.publisher.called)

	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, entities.SyncRunStatusCanceled, f.runs.runs[0].Status)
}

func TestSyncRunSkipsUploadWhenChecksumUnchanged(t *testing.T) {
	f := newSyncFixture([]MerchantSource{
		ctxSource(sourcedLocation("Starbucks", entities.SourceCTX, "ctx-1", 40.7128, -74.0060)),
	}, nil)
	f.publisher.skipped = true

	report, err := f.usecase.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.True(t, f.publisher.called)
	// The remote already held this artifact; the run row still records
	// the checksum it verified against.
	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, "abc123", f.runs.runs[0].Checksum)
}

type stubExporter struct {
	exported []entities.MerchantLocation
	err      error
}

func (s *stubExporter) Export(_ context.Context, locations []entities.MerchantLocation) error {
	s.exported = locations
	return s.err
}

func TestSyncRunInvokesExporter(t *testing.T) {
	f := newSyncFixture(
		[]MerchantSource{ctxSource(sourcedLocation("Starbucks", entities.SourceCTX, "ctx-1", 40.71281, -74.00601))},
		nil,
	)
	exporter := &stubExporter{}
	f.usecase.SetExporter(exporter)

	_, err := f.usecase.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, exporter.exported, 1)
}

func TestSyncRunExporterFailureDoesNotFailRun(t *testing.T) {
	f := newSyncFixture(
		[]MerchantSource{ctxSource(sourcedLocation("Starbucks", entities.SourceCTX, "ctx-1", 40.71281, -74.00601))},
		nil,
	)
	f.usecase.SetExporter(&stubExporter{err: errors.New("disk full")})

	_, err := f.usecase.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, f.runs.runs, 1)
	assert.Equal(t, entities.SyncRunStatusSucceeded, f.runs.runs[0].Status)
}
