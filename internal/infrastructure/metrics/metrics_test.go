package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"explore-sync.backend/internal/domain/entities"
)

func TestObserveRunSuccess(t *testing.T) {
	before := testutil.ToFloat64(syncRuns.WithLabelValues("succeeded"))

	report := entities.NewSyncReport(entities.SourceCTX)
	report.StartedAt = time.Now().Add(-time.Minute)
	report.FinishedAt = time.Now()
	report.TotalMerchants = 42
	report.TotalLocations = 120
	report.MergedLocations = 7
	report.TotalAtms = 3
	report.SetDataSourceReport(entities.DataSourceReport{Source: entities.SourceCTX, Locations: 120})

	ObserveRun(entities.SyncRunStatusSucceeded, report)

	assert.Equal(t, before+1, testutil.ToFloat64(syncRuns.WithLabelValues("succeeded")))
	assert.Equal(t, 42.0, testutil.ToFloat64(merchants))
	assert.Equal(t, 120.0, testutil.ToFloat64(locations))
	assert.Equal(t, 7.0, testutil.ToFloat64(mergedLocations))
	assert.Equal(t, 3.0, testutil.ToFloat64(atms))
	assert.Equal(t, 120.0, testutil.ToFloat64(sourceLocations.WithLabelValues("CTX")))
}

func TestObserveRunFailureKeepsGauges(t *testing.T) {
	merchants.Set(42)
	before := testutil.ToFloat64(syncRuns.WithLabelValues("failed"))

	ObserveRun(entities.SyncRunStatusFailed, nil)

	assert.Equal(t, before+1, testutil.ToFloat64(syncRuns.WithLabelValues("failed")))
	assert.Equal(t, 42.0, testutil.ToFloat64(merchants))
}
