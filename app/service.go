// Package app wires the pipeline together: fetch, parse, classify, record,
// export, then reconcile. Producing the schedule and consuming it for
// remote sync are two explicit stages; Sync never re-runs Produce.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pkozlov/blackoutcal/config"
	"github.com/pkozlov/blackoutcal/core/calendar"
	corehistory "github.com/pkozlov/blackoutcal/core/history"
	"github.com/pkozlov/blackoutcal/core/logger"
	"github.com/pkozlov/blackoutcal/core/metrics"
	"github.com/pkozlov/blackoutcal/core/reconcile"
	"github.com/pkozlov/blackoutcal/core/schedule"
	"github.com/pkozlov/blackoutcal/core/state"
	"github.com/pkozlov/blackoutcal/infra/blob"
	"github.com/pkozlov/blackoutcal/infra/ics"
	"github.com/pkozlov/blackoutcal/pkg/render"
)

// State file names under the output directory.
const (
	ScheduleStateFile = "schedule_state.json"
	SyncStateFile     = "sync_state.json"
)

// TextSource produces the raw schedule page text.
type TextSource interface {
	Fetch(ctx context.Context) (string, error)
}

// GroupDay is the computed schedule for one group on one day, together with
// its change classification.
type GroupDay struct {
	Schedule       schedule.GroupSchedule
	Positives      []schedule.Interval
	Classification state.Classification
}

// Day bundles all groups' schedules for one published date.
type Day struct {
	Date    time.Time
	DateKey string
	// Groups follows the configured group order.
	Groups []GroupDay
}

// RunResult is the structured output of the produce stage and the sole
// input of the sync stage.
type RunResult struct {
	Days      []Day
	Snapshot  *state.Snapshot
	UpdatedAt string

	// exportErr is set when writing the local calendar documents failed.
	// The sync stage refuses to run off stale or absent local truth.
	exportErr error
}

// Service runs the pipeline.
type Service struct {
	cfg     *config.Config
	source  TextSource
	store   *blob.Store
	history corehistory.Store
	sink    metrics.Sink
	log     logger.Logger
}

// New creates a Service. sink may be nil.
func New(cfg *config.Config, source TextSource, hist corehistory.Store, sink metrics.Sink, log logger.Logger) *Service {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Service{
		cfg:     cfg,
		source:  source,
		store:   blob.NewStore(cfg.OutputDir),
		history: hist,
		sink:    sink,
		log:     log,
	}
}

// Produce fetches the page, computes every (date, group) schedule,
// classifies changes against the previous snapshot, records history,
// exports the per-group calendar documents and persists the new snapshot.
//
// Fetch failures and a page without any recognizable schedule are fatal:
// nothing is persisted and the error is returned. Persist failures are
// non-fatal; the next run redoes equivalent work.
func (s *Service) Produce(ctx context.Context) (*RunResult, error) {
	started := time.Now()

	text, err := s.source.Fetch(ctx)
	if err != nil {
		s.recordRun(started, false, nil)
		return nil, fmt.Errorf("fetch schedule page: %w", err)
	}

	loc := s.cfg.Location()
	sections := schedule.SplitSections(text, loc)
	if len(sections) == 0 {
		s.recordRun(started, false, nil)
		return nil, errors.New("no schedules found on page")
	}

	prev := s.loadSnapshot()
	snap := state.NewSnapshot(s.cfg.Groups)
	exporter := ics.NewExporter(s.cfg.OutputDir, s.cfg.Groups)

	result := &RunResult{Snapshot: snap, UpdatedAt: schedule.UpdatedAt(text)}
	for _, sec := range sections {
		day := Day{Date: sec.Date, DateKey: sec.Date.Format("2006-01-02")}
		for _, group := range s.cfg.Groups {
			g := schedule.Compute(sec.Text, group, sec.Date)
			positives := schedule.Complement(sec.Date, g.Intervals)
			exporter.AddDay(g, positives)
			snap.Record(day.DateKey, group, g.Signature)

			class := prev.Classify(day.DateKey, group, g.Signature)
			day.Groups = append(day.Groups, GroupDay{Schedule: g, Positives: positives, Classification: class})

			if err := s.history.Record(corehistory.Entry{
				Date:         day.DateKey,
				Group:        group,
				TotalSeconds: int64(g.TotalOff.Seconds()),
				Ranges:       g.RawRanges,
			}); err != nil {
				s.log.Warnf("record history %s %s: %v", day.DateKey, group, err)
			}
			if err := s.sink.RecordGroupDay(metrics.GroupDayEvent{
				Time:           time.Now(),
				Group:          group,
				Date:           day.DateKey,
				OffSeconds:     g.TotalOff.Seconds(),
				PercentOff:     g.PercentOff,
				Classification: class.String(),
			}); err != nil {
				s.log.Warnf("metrics sink: %v", err)
			}
		}
		result.Days = append(result.Days, day)
	}

	if err := exporter.Write(); err != nil {
		// Without the exported documents the reconciler has no local truth
		// for this run; Sync checks this and refuses to touch the remote.
		s.log.Errorf("export calendars: %v", err)
		result.exportErr = err
	}
	if err := s.store.Save(ScheduleStateFile, snap); err != nil {
		s.log.Errorf("persist schedule state: %v", err)
	}

	s.recordRun(started, true, result)
	return result, nil
}

// Sync reconciles the remote calendars against an already produced result.
// Only pairs classified new or changed are considered; the reconciler skips
// those whose signature was already written remotely.
func (s *Service) Sync(ctx context.Context, result *RunResult, remote calendar.Store) []reconcile.Result {
	if len(s.cfg.Calendars) == 0 {
		s.log.Warnf("no calendar mappings configured, skipping sync")
		return nil
	}
	if result.exportErr != nil {
		// Reconciling off documents from a previous run would wipe or
		// re-insert stale events while recording the fresh signature.
		s.log.Errorf("local calendars were not written, skipping sync: %v", result.exportErr)
		return nil
	}

	syncState := s.loadSyncState()
	pairs := s.buildPairs(result)
	if len(pairs) == 0 {
		s.log.Infof("all calendars up to date")
		return nil
	}

	rec := reconcile.New(remote, ics.NewReader(s.cfg.OutputDir), syncState, s.sink, s.log,
		time.Duration(s.cfg.Sync.TimeoutSeconds)*time.Second)
	results := rec.Reconcile(ctx, pairs)

	advanced := false
	for _, r := range results {
		if r.Synced {
			advanced = true
		}
	}
	if advanced {
		if err := s.store.Save(SyncStateFile, syncState); err != nil {
			s.log.Errorf("persist sync state: %v", err)
		}
	}
	return results
}

func (s *Service) buildPairs(result *RunResult) []reconcile.Pair {
	configured := make(map[string]bool, len(s.cfg.Groups))
	for _, g := range s.cfg.Groups {
		configured[g] = true
	}
	for group := range s.cfg.Calendars {
		if !configured[group] {
			s.log.Warnf("calendar mapping for unknown group %q, check configuration", group)
		}
	}

	var pairs []reconcile.Pair
	for _, day := range result.Days {
		for _, gd := range day.Groups {
			calendarID, ok := s.cfg.Calendars[gd.Schedule.GroupID]
			if !ok {
				continue
			}
			if gd.Classification == state.Unchanged {
				continue
			}
			pairs = append(pairs, reconcile.Pair{
				GroupID:    gd.Schedule.GroupID,
				CalendarID: calendarID,
				Day:        day.Date,
				DateKey:    day.DateKey,
				Signature:  gd.Schedule.Signature,
			})
		}
	}
	return pairs
}

// Render prints the run's schedule tables.
func (s *Service) Render(result *RunResult, p *render.Printer) {
	if result.UpdatedAt != "" {
		s.log.Infof("page updated at %s", result.UpdatedAt)
	}
	for _, day := range result.Days {
		rows := make([]render.DayRow, 0, len(day.Groups))
		for _, gd := range day.Groups {
			rows = append(rows, render.DayRow{
				Group:      gd.Schedule.GroupID,
				Slots:      schedule.SlotMap(day.Date, gd.Schedule.Intervals),
				Ranges:     gd.Schedule.RawRanges,
				TotalOff:   gd.Schedule.TotalOff,
				PercentOff: gd.Schedule.PercentOff,
				Status:     statusLabel(gd.Classification),
				NoData:     !gd.Schedule.HasData(),
			})
		}
		p.DaySchedule(day.Date, rows)
	}
}

// PrintStats renders aggregate history statistics.
func (s *Service) PrintStats(p *render.Printer) error {
	entries, err := s.history.All()
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	stats, days := corehistory.Aggregate(entries, s.cfg.Groups)
	p.HistorySummary(stats, days)
	return nil
}

func statusLabel(c state.Classification) string {
	switch c {
	case state.New:
		return "new day"
	case state.Changed:
		return "⚠ CHANGED"
	default:
		return "unchanged"
	}
}

func (s *Service) loadSnapshot() *state.Snapshot {
	data, err := s.store.Load(ScheduleStateFile)
	switch {
	case err == nil:
		return state.DecodeSnapshot(data)
	case errors.Is(err, blob.ErrAbsent):
		s.log.Debugf("no previous schedule state")
	case errors.Is(err, blob.ErrDenied):
		s.log.Errorf("schedule state unreadable: %v", err)
	default:
		s.log.Warnf("load schedule state: %v", err)
	}
	return state.NewSnapshot(nil)
}

func (s *Service) loadSyncState() *state.SyncState {
	data, err := s.store.Load(SyncStateFile)
	switch {
	case err == nil:
		return state.DecodeSyncState(data)
	case errors.Is(err, blob.ErrAbsent):
		s.log.Debugf("no previous sync state")
	case errors.Is(err, blob.ErrDenied):
		s.log.Errorf("sync state unreadable: %v", err)
	default:
		s.log.Warnf("load sync state: %v", err)
	}
	return state.NewSyncState()
}

func (s *Service) recordRun(started time.Time, success bool, result *RunResult) {
	ev := metrics.RunEvent{Time: started, Success: success, Duration: time.Since(started)}
	if result != nil {
		ev.Dates = len(result.Days)
		ev.Groups = len(s.cfg.Groups)
	}
	if err := s.sink.RecordRun(ev); err != nil {
		s.log.Warnf("metrics sink: %v", err)
	}
}
