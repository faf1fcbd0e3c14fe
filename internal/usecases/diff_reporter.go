package usecases

import (
	"sort"
	"strings"
)

// DiffReporter computes which merchant names appeared and disappeared
// between two sync runs. Comparisons are on normalized names so a pure
// canonicalization change does not show up as churn.
type DiffReporter struct {
	registry *NameRegistry
}

func NewDiffReporter(registry *NameRegistry) *DiffReporter {
	return &DiffReporter{registry: registry}
}

// NameDiff holds the added and removed names between two snapshots,
// sorted for stable report output.
type NameDiff struct {
	Added   []string
	Removed []string
}

// Diff compares the previous snapshot's names against the current run's.
// Names are keyed by their normalized form; the reported values are the
// canonical names from the current run (for additions) or the previous
// snapshot (for removals).
func (d *DiffReporter) Diff(previous, current []string) NameDiff {
	prevByKey := d.index(previous)
	currByKey := d.index(current)

	var diff NameDiff
	for k, name := range currByKey {
		if _, ok := prevByKey[k]; !ok {
			diff.Added = append(diff.Added, name)
		}
	}
	for k, name := range prevByKey {
		if _, ok := currByKey[k]; !ok {
			diff.Removed = append(diff.Removed, name)
		}
	}
	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	return diff
}

// Empty reports whether the diff carries no changes.
func (d NameDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

func (d *DiffReporter) index(names []string) map[string]string {
	out := make(map[string]string, len(names))
	for _, n := range names {
		canonical := d.registry.CanonicalName(n)
		key := strings.ToLower(strings.ReplaceAll(canonical, "'", ""))
		if _, ok := out[key]; !ok {
			out[key] = canonical
		}
	}
	return out
}
