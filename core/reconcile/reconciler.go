// Package reconcile brings the remote calendar's tagged events in line with
// the freshly computed schedule, issuing the minimal delete and insert
// operations and skipping pairs whose signature was already written.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pkozlov/blackoutcal/core/calendar"
	"github.com/pkozlov/blackoutcal/core/logger"
	"github.com/pkozlov/blackoutcal/core/metrics"
	"github.com/pkozlov/blackoutcal/core/state"
)

// LocalSource supplies the run's locally exported blackout events for one
// group, the reconciler's source of truth.
type LocalSource interface {
	BlackoutEvents(groupID string) ([]calendar.Event, error)
}

// Pair is one (group, date) unit of reconciliation work.
type Pair struct {
	GroupID    string
	CalendarID string
	// Day is midnight of the civil day in the configured timezone.
	Day time.Time
	// DateKey is the "YYYY-MM-DD" form of Day.
	DateKey string
	// Signature is the freshly computed schedule signature for the pair.
	Signature string
}

// Result reports the outcome for one pair.
type Result struct {
	Pair
	// Skipped means the signature was already synced; no remote call was made.
	Skipped  bool
	Deleted  int
	Inserted int
	Failed   int
	// Synced means the sync state advanced to the new signature.
	Synced bool
	// Err is set on a hard failure (listing failed, local truth unreadable,
	// or every operation in the batch failed); the pair is retried next run.
	Err error
}

// Reconciler mirrors computed schedules into a remote calendar store.
type Reconciler struct {
	remote    calendar.Store
	local     LocalSource
	syncState *state.SyncState
	sink      metrics.Sink
	log       logger.Logger
	timeout   time.Duration
}

// New creates a Reconciler. timeout bounds every individual remote call;
// zero means 30 seconds.
func New(remote calendar.Store, local LocalSource, syncState *state.SyncState, sink metrics.Sink, log logger.Logger, timeout time.Duration) *Reconciler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Reconciler{
		remote:    remote,
		local:     local,
		syncState: syncState,
		sink:      sink,
		log:       log,
		timeout:   timeout,
	}
}

// Reconcile processes all pairs, fanning out across goroutines. Pairs that
// share a remote calendar are serialized so deletes never race inserts on
// the same day. Results are returned in input order.
func (r *Reconciler) Reconcile(ctx context.Context, pairs []Pair) []Result {
	locks := make(map[string]*sync.Mutex, len(pairs))
	for _, p := range pairs {
		if locks[p.CalendarID] == nil {
			locks[p.CalendarID] = &sync.Mutex{}
		}
	}

	results := make([]Result, len(pairs))
	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		go func(i int, p Pair) {
			defer wg.Done()
			mu := locks[p.CalendarID]
			mu.Lock()
			defer mu.Unlock()
			results[i] = r.reconcilePair(ctx, p)
		}(i, p)
	}
	wg.Wait()

	for _, res := range results {
		if res.Skipped {
			continue
		}
		if err := r.sink.RecordSync(metrics.SyncEvent{
			Time:     time.Now(),
			Group:    res.GroupID,
			Date:     res.DateKey,
			Deleted:  res.Deleted,
			Inserted: res.Inserted,
			Failed:   res.Failed,
			Synced:   res.Synced,
		}); err != nil {
			r.log.Warnf("metrics sink: %v", err)
		}
	}
	return results
}

func (r *Reconciler) reconcilePair(ctx context.Context, p Pair) Result {
	res := Result{Pair: p}
	if r.syncState.Signature(p.GroupID, p.DateKey) == p.Signature {
		res.Skipped = true
		r.log.Debugf("group %s %s already synced", p.GroupID, p.DateKey)
		return res
	}

	dayEnd := p.Day.AddDate(0, 0, 1)
	existing, err := r.listRemote(ctx, p, dayEnd)
	if err != nil {
		res.Err = err
		r.log.Errorf("group %s %s: %v", p.GroupID, p.DateKey, err)
		return res
	}

	locals, err := r.local.BlackoutEvents(p.GroupID)
	if err != nil {
		res.Err = fmt.Errorf("local events: %w", err)
		r.log.Errorf("group %s %s: %v", p.GroupID, p.DateKey, res.Err)
		return res
	}
	var dayLocals []calendar.Event
	for _, ev := range locals {
		if !ev.Start.Before(p.Day) && ev.Start.Before(dayEnd) {
			dayLocals = append(dayLocals, ev)
		}
	}

	// A non-empty signature promises at least one blackout interval for the
	// day. If the local document disagrees it is absent or stale, and
	// deleting remote events against it would destroy the good copy.
	if p.Signature != "" && len(dayLocals) == 0 {
		res.Err = errors.New("local document missing day events")
		r.log.Errorf("group %s %s: %v, will retry next run", p.GroupID, p.DateKey, res.Err)
		return res
	}

	tag := calendar.GroupTag(p.GroupID)
	attempted := 0

	// Delete phase: only this group's tagged events within the day window.
	for _, ev := range existing {
		if !strings.Contains(ev.Summary, tag) {
			continue
		}
		attempted++
		if err := r.deleteRemote(ctx, p.CalendarID, ev.ID); err != nil {
			res.Failed++
			r.log.Errorf("delete group %s %s event %s: %v", p.GroupID, p.DateKey, ev.ID, err)
			continue
		}
		res.Deleted++
	}

	// Insert phase: one remote event per current blackout interval.
	for _, ev := range dayLocals {
		attempted++
		insert := calendar.Event{
			Summary:     calendar.BlackoutSummary(p.GroupID),
			Description: "Group " + p.GroupID,
			Start:       ev.Start,
			End:         ev.End,
		}
		if err := r.insertRemote(ctx, p.CalendarID, insert); err != nil {
			res.Failed++
			r.log.Errorf("insert group %s %s %s: %v", p.GroupID, p.DateKey, insert.Start.Format("15:04"), err)
			continue
		}
		res.Inserted++
	}

	if attempted > 0 && res.Failed == attempted {
		res.Err = errors.New("all remote operations failed")
		r.log.Errorf("group %s %s: batch fully failed, will retry next run", p.GroupID, p.DateKey)
		return res
	}

	r.syncState.Set(p.GroupID, p.DateKey, p.Signature)
	res.Synced = true
	r.log.Infof("group %s %s synced: %d deleted, %d inserted, %d failed",
		p.GroupID, p.DateKey, res.Deleted, res.Inserted, res.Failed)
	return res
}

func (r *Reconciler) listRemote(ctx context.Context, p Pair, dayEnd time.Time) ([]calendar.Event, error) {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	events, err := r.remote.List(cctx, p.CalendarID, p.Day, dayEnd, calendar.BlackoutMarker)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *Reconciler) deleteRemote(ctx context.Context, calendarID, eventID string) error {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	err := r.remote.Delete(cctx, calendarID, eventID)
	if errors.Is(err, calendar.ErrGone) {
		// Someone beat us to it; the goal state is reached either way.
		return nil
	}
	return err
}

func (r *Reconciler) insertRemote(ctx context.Context, calendarID string, ev calendar.Event) error {
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.remote.Insert(cctx, calendarID, ev)
}
