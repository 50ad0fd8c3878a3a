// Package calendar defines the contract for the remote event store the
// reconciler mirrors schedules into, plus the title conventions used to tag
// events. The reconciler only ever creates or deletes events carrying its
// own tag; everything else in a shared calendar is left untouched.
package calendar

import (
	"context"
	"errors"
	"time"
)

// ErrGone is returned (or wrapped) by Delete when the event is already
// absent remotely. Callers treat it as success.
var ErrGone = errors.New("calendar: event already gone")

// Event is one remote calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Store lists, inserts and deletes events in one remote calendar service.
// All calls must honor the context deadline.
type Store interface {
	// List returns events in [from, to) whose text matches query.
	List(ctx context.Context, calendarID string, from, to time.Time, query string) ([]Event, error)
	Insert(ctx context.Context, calendarID string, ev Event) error
	// Delete removes one event. An already-deleted event yields ErrGone.
	Delete(ctx context.Context, calendarID, eventID string) error
}

// BlackoutMarker appears in every outage event title and is used as the
// remote search query.
const BlackoutMarker = "No power"

// PowerOnMarker titles the complementary "power available" events in the
// exported local calendars. They are never written remotely.
const PowerOnMarker = "Power on"

// GroupTag returns the per-group suffix appended to remote event summaries.
func GroupTag(groupID string) string { return "(Group " + groupID + ")" }

// BlackoutSummary is the full remote summary for one group's outage event.
func BlackoutSummary(groupID string) string {
	return "🌑 " + BlackoutMarker + " " + GroupTag(groupID)
}
