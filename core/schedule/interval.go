package schedule

import (
	"fmt"
	"time"
)

// Interval is a single blackout period. Both ends are timezone-aware and
// belong to one civil day; End may fall past midnight of the next calendar
// day. End is always strictly after Start.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// Clock renders the interval as wall-clock boundaries, "HH:MM-HH:MM".
// The date and timezone are intentionally dropped: an end at midnight of
// the following day reads "00:00".
func (iv Interval) Clock() string {
	return fmt.Sprintf("%s-%s", iv.Start.Format("15:04"), iv.End.Format("15:04"))
}

// GroupSchedule holds everything derived from one group's section of one
// day's published text. It is recomputed from scratch every run.
type GroupSchedule struct {
	GroupID string
	// Date is midnight of the civil day in the configured timezone.
	Date      time.Time
	Intervals []Interval
	// RawRanges are the "HH:MM-HH:MM" strings in order of appearance in the
	// source text, before any sorting or wrap resolution.
	RawRanges []string
	Signature string
	TotalOff  time.Duration
	// PercentOff is TotalOff relative to a 86400-second day, 0..100.
	PercentOff float64
}

// HasData reports whether the source text contained a section for this
// group. A group with a section but no outages still has data.
func (g GroupSchedule) HasData() bool { return g.RawRanges != nil }

// ResolveClock turns an "HH:MM" literal into a timestamp on the given day.
// day must be midnight in the target timezone. The literal "24:00" resolves
// to midnight of the following day.
func ResolveClock(day time.Time, hhmm string) (time.Time, error) {
	if hhmm == "24:00" {
		return day.AddDate(0, 0, 1), nil
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse clock %q: %w", hhmm, err)
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// DayStart returns midnight of the given civil date in loc.
func DayStart(year int, month time.Month, dayOfMonth int, loc *time.Location) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, loc)
}
