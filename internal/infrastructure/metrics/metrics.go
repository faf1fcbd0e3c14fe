package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"explore-sync.backend/internal/domain/entities"
)

var (
	syncRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "explore_sync",
		Name:      "runs_total",
		Help:      "Sync runs by outcome.",
	}, []string{"status"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "explore_sync",
		Name:      "run_duration_seconds",
		Help:      "Wall time of completed sync runs.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	merchants = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "explore_sync",
		Name:      "merchants",
		Help:      "Distinct merchants in the last successful run.",
	})

	locations = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "explore_sync",
		Name:      "locations",
		Help:      "Merchant locations in the last successful run.",
	})

	mergedLocations = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "explore_sync",
		Name:      "merged_locations",
		Help:      "Locations collapsed from multiple sources in the last successful run.",
	})

	atms = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "explore_sync",
		Name:      "atms",
		Help:      "ATM locations in the last successful run.",
	})

	sourceLocations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "explore_sync",
		Name:      "source_locations",
		Help:      "Raw locations fetched per source in the last successful run.",
	}, []string{"source"})
)

// ObserveRun records one run outcome. The report may be nil for skipped
// or failed runs.
func ObserveRun(status entities.SyncRunStatus, report *entities.SyncReport) {
	syncRuns.WithLabelValues(string(status)).Inc()
	if report == nil {
		return
	}
	if !report.FinishedAt.IsZero() && !report.StartedAt.IsZero() {
		syncDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	}
	if status != entities.SyncRunStatusSucceeded {
		return
	}
	merchants.Set(float64(report.TotalMerchants))
	locations.Set(float64(report.TotalLocations))
	mergedLocations.Set(float64(report.MergedLocations))
	atms.Set(float64(report.TotalAtms))
	for _, dsr := range report.DataSourceReports() {
		sourceLocations.WithLabelValues(string(dsr.Source)).Set(float64(dsr.Locations))
	}
}
