// Package metrics defines the sink contract for run and reconciliation
// telemetry. Sinks are built from configuration through the factory
// registry and can be combined with a multi sink; a missing configuration
// yields the NopSink.
package metrics

import "time"

// RunEvent summarizes one full pipeline run.
type RunEvent struct {
	Time     time.Time
	Success  bool
	Dates    int
	Groups   int
	Duration time.Duration
}

// GroupDayEvent records the computed schedule for one (group, date) pair.
type GroupDayEvent struct {
	Time           time.Time
	Group          string
	Date           string
	OffSeconds     float64
	PercentOff     float64
	Classification string
}

// SyncEvent records the outcome of reconciling one (group, date) pair
// against the remote calendar.
type SyncEvent struct {
	Time     time.Time
	Group    string
	Date     string
	Deleted  int
	Inserted int
	Failed   int
	Synced   bool
}

// Sink receives telemetry events. Implementations must be safe for
// concurrent use; reconciliation fans out across pairs.
type Sink interface {
	RecordRun(RunEvent) error
	RecordGroupDay(GroupDayEvent) error
	RecordSync(SyncEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error           { return nil }
func (NopSink) RecordGroupDay(GroupDayEvent) error { return nil }
func (NopSink) RecordSync(SyncEvent) error         { return nil }
