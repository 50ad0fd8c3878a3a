// Package history accumulates per-day, per-group outage totals for trend
// statistics. The log is append-style: a run overwrites only the keys for
// the dates it processed and never touches other dates' entries.
package history

import (
	"gonum.org/v1/gonum/stat"
)

// Entry is one recorded (date, group) observation.
type Entry struct {
	// Date is the civil day, "YYYY-MM-DD".
	Date  string
	Group string
	// TotalSeconds is the summed blackout duration for that day.
	TotalSeconds int64
	// Ranges are the "HH:MM-HH:MM" strings as published.
	Ranges []string
}

// Store persists history entries keyed by (date, group).
type Store interface {
	// Record upserts exactly one entry, replacing any prior value for the
	// same key.
	Record(e Entry) error
	// All returns every recorded entry.
	All() ([]Entry, error)
	Close() error
}

// GroupStats summarizes all recorded days for one group.
type GroupStats struct {
	Group        string
	Days         int
	MeanSeconds  float64
	MaxSeconds   int64
	TotalSeconds int64
}

// Aggregate computes read-only per-group statistics over the full log.
// Entries for groups outside the configured set are skipped (but remain in
// the log); configured groups with no entries are omitted from the result.
// The returned day count covers every distinct date in the log, filtered or
// not.
func Aggregate(entries []Entry, groups []string) ([]GroupStats, int) {
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g] = true
	}

	perGroup := map[string][]float64{}
	dates := map[string]bool{}
	for _, e := range entries {
		dates[e.Date] = true
		if !known[e.Group] {
			continue
		}
		perGroup[e.Group] = append(perGroup[e.Group], float64(e.TotalSeconds))
	}

	var out []GroupStats
	for _, g := range groups {
		values := perGroup[g]
		if len(values) == 0 {
			continue
		}
		var max, total float64
		for _, v := range values {
			if v > max {
				max = v
			}
			total += v
		}
		out = append(out, GroupStats{
			Group:        g,
			Days:         len(values),
			MeanSeconds:  stat.Mean(values, nil),
			MaxSeconds:   int64(max),
			TotalSeconds: int64(total),
		})
	}
	return out, len(dates)
}
