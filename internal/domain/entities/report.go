package entities

import (
	"fmt"
	"strings"
	"time"
)

// DataSourceReport holds per-source counters and merchant-name diffs versus
// the previous run.
type DataSourceReport struct {
	Source            Source   `json:"source"`
	Merchants         int      `json:"merchants"`
	Locations         int      `json:"locations"`
	DisabledMerchants []string `json:"disabledMerchants,omitempty"`
	NewMerchants      []string `json:"newMerchants,omitempty"`
	RemovedMerchants  []string `json:"removedMerchants,omitempty"`
}

// SyncReport is the human-readable run summary posted to the ops channel.
type SyncReport struct {
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	TotalMerchants  int       `json:"totalMerchants"`
	TotalLocations  int       `json:"totalLocations"`
	MergedLocations int       `json:"mergedLocations"`
	TotalAtms       int       `json:"totalAtms"`
	Checksum        string    `json:"checksum,omitempty"`

	sources map[Source]*DataSourceReport
	order   []Source
}

// NewSyncReport creates a report tracking the given sources in order.
func NewSyncReport(sources ...Source) *SyncReport {
	r := &SyncReport{sources: make(map[Source]*DataSourceReport)}
	for _, s := range sources {
		r.sources[s] = &DataSourceReport{Source: s}
		r.order = append(r.order, s)
	}
	return r
}

// SetDataSourceReport replaces the report for one source, registering the
// source if it was not tracked yet.
func (r *SyncReport) SetDataSourceReport(dsr DataSourceReport) {
	if _, ok := r.sources[dsr.Source]; !ok {
		r.order = append(r.order, dsr.Source)
	}
	r.sources[dsr.Source] = &dsr
}

// DataSource returns the report for one source, or nil if untracked.
func (r *SyncReport) DataSource(s Source) *DataSourceReport {
	return r.sources[s]
}

// DataSourceReports returns the per-source reports in registration order.
func (r *SyncReport) DataSourceReports() []DataSourceReport {
	out := make([]DataSourceReport, 0, len(r.order))
	for _, s := range r.order {
		out = append(out, *r.sources[s])
	}
	return out
}

// String renders the slack-markdown summary.
func (r *SyncReport) String() string {
	var sb strings.Builder
	sb.WriteString("*explore-sync Report:*\n")
	fmt.Fprintf(&sb, "  • *Total Merchants:* %d\n", r.TotalMerchants)
	fmt.Fprintf(&sb, "  • *Total Locations:* %d\n", r.TotalLocations)
	fmt.Fprintf(&sb, "  • *Duplicate Locations:* %d\n", r.MergedLocations)
	if r.TotalAtms > 0 {
		fmt.Fprintf(&sb, "  • *Total ATMs:* %d\n", r.TotalAtms)
	}
	sb.WriteString("  *Data Sources:*\n")
	for _, s := range r.order {
		ds := r.sources[s]
		fmt.Fprintf(&sb, "    *%s:*\n", ds.Source)
		fmt.Fprintf(&sb, "      • *Merchants:* %d\n", ds.Merchants)
		fmt.Fprintf(&sb, "      • *Locations:* %d\n", ds.Locations)
		if len(ds.DisabledMerchants) > 0 {
			fmt.Fprintf(&sb, "      • ⚠️ *Disabled Merchants:* %d %v\n", len(ds.DisabledMerchants), ds.DisabledMerchants)
		}
		if len(ds.NewMerchants) > 0 {
			fmt.Fprintf(&sb, "      • ✅ *New Merchants:* %d %v\n", len(ds.NewMerchants), ds.NewMerchants)
		}
		if len(ds.RemovedMerchants) > 0 {
			fmt.Fprintf(&sb, "      • ❌ *Removed Merchants:* %d %v\n", len(ds.RemovedMerchants), ds.RemovedMerchants)
		}
	}
	return sb.String()
}
