package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"explore-sync.backend/internal/domain/entities"
	domainerrors "explore-sync.backend/internal/domain/errors"
)

type syncRunnerStub struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *syncRunnerStub) Run(_ context.Context) (*entities.SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &entities.SyncReport{TotalMerchants: 10, TotalLocations: 25}, nil
}

func (s *syncRunnerStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestRunOnce_Success(t *testing.T) {
	runner := &syncRunnerStub{}
	job := &SyncSchedulerJob{runner: runner, interval: time.Millisecond, stop: make(chan struct{})}

	job.runOnce(context.Background())
	require.Equal(t, 1, runner.callCount())
}

func TestRunOnce_InProgressIsNotFatal(t *testing.T) {
	runner := &syncRunnerStub{err: domainerrors.ErrSyncInProgress}
	job := &SyncSchedulerJob{runner: runner, interval: time.Millisecond, stop: make(chan struct{})}

	job.runOnce(context.Background())
	require.Equal(t, 1, runner.callCount())
}

func TestRunOnce_Error(t *testing.T) {
	runner := &syncRunnerStub{err: errors.New("source down")}
	job := &SyncSchedulerJob{runner: runner, interval: time.Millisecond, stop: make(chan struct{})}

	job.runOnce(context.Background())
	require.Equal(t, 1, runner.callCount())
}

func TestStart_RunsImmediatelyWhenConfigured(t *testing.T) {
	runner := &syncRunnerStub{}
	job := &SyncSchedulerJob{runner: runner, interval: time.Hour, runOnStart: true, stop: make(chan struct{})}

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	require.Eventually(t, func() bool { return runner.callCount() == 1 }, 500*time.Millisecond, 5*time.Millisecond)
	job.Stop()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on Stop()")
	}
}

func TestStart_StopsByContext(t *testing.T) {
	runner := &syncRunnerStub{}
	job := &SyncSchedulerJob{runner: runner, interval: time.Hour, stop: make(chan struct{})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on context cancel")
	}
}
