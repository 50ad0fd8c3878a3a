// Package ics writes the per-group calendar documents accumulated over a
// run and reads them back as the reconciler's local truth.
package ics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/pkozlov/blackoutcal/core/calendar"
	"github.com/pkozlov/blackoutcal/core/schedule"
)

// Exporter accumulates events per group across all processed dates and
// writes one ICS document per group at the end of the run.
type Exporter struct {
	dir  string
	cals map[string]*ical.Calendar
}

// NewExporter prepares an empty calendar for every configured group.
func NewExporter(dir string, groups []string) *Exporter {
	cals := make(map[string]*ical.Calendar, len(groups))
	for _, g := range groups {
		cal := ical.NewCalendar()
		cal.SetMethod(ical.MethodPublish)
		cal.SetProductId("-//blackoutcal//outage schedule//EN")
		cals[g] = cal
	}
	return &Exporter{dir: dir, cals: cals}
}

// AddDay appends one day's blackout and power-available events to the
// group's calendar. Unknown groups are ignored.
func (e *Exporter) AddDay(g schedule.GroupSchedule, positives []schedule.Interval) {
	cal, ok := e.cals[g.GroupID]
	if !ok {
		return
	}
	for _, iv := range g.Intervals {
		ev := cal.AddEvent(uuid.NewString())
		ev.SetSummary("🌑 " + calendar.BlackoutMarker)
		ev.SetDescription("Group " + g.GroupID)
		ev.SetStartAt(iv.Start)
		ev.SetEndAt(iv.End)
	}
	for _, iv := range positives {
		ev := cal.AddEvent(uuid.NewString())
		ev.SetSummary("💡 " + calendar.PowerOnMarker)
		ev.SetStartAt(iv.Start)
		ev.SetEndAt(iv.End)
	}
}

// GroupFile returns the document path for one group.
func GroupFile(dir, groupID string) string {
	return filepath.Join(dir, fmt.Sprintf("group_%s.ics", groupID))
}

// Write serializes every group calendar to disk.
func (e *Exporter) Write() error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", e.dir, err)
	}
	for g, cal := range e.cals {
		path := GroupFile(e.dir, g)
		if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

// Reader loads a group's exported document and filters it to blackout
// events. It implements the reconciler's LocalSource.
type Reader struct {
	dir string
}

// NewReader returns a Reader over the given output directory.
func NewReader(dir string) *Reader { return &Reader{dir: dir} }

// BlackoutEvents returns the group's blackout events across all exported
// dates. A missing document yields no events, not an error.
func (r *Reader) BlackoutEvents(groupID string) ([]calendar.Event, error) {
	path := GroupFile(r.dir, groupID)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	cal, err := ical.ParseCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var out []calendar.Event
	for _, ve := range cal.Events() {
		sum := ve.GetProperty(ical.ComponentPropertySummary)
		if sum == nil || !strings.Contains(sum.Value, calendar.BlackoutMarker) {
			continue
		}
		start, err := ve.GetStartAt()
		if err != nil {
			continue
		}
		end, err := ve.GetEndAt()
		if err != nil {
			continue
		}
		ev := calendar.Event{Summary: sum.Value, Start: start, End: end}
		if uid := ve.GetProperty(ical.ComponentPropertyUniqueId); uid != nil {
			ev.ID = uid.Value
		}
		if desc := ve.GetProperty(ical.ComponentPropertyDescription); desc != nil {
			ev.Description = desc.Value
		}
		out = append(out, ev)
	}
	return out, nil
}
