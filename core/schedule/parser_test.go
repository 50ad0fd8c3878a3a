package schedule

import (
	"testing"
	"time"
)

var kyiv = mustLoad("Europe/Kyiv")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func day(t *testing.T) time.Time {
	t.Helper()
	return DayStart(2024, time.January, 10, kyiv)
}

func TestExtractIntervals_Basic(t *testing.T) {
	text := "Group 1.1. No power from 14:00 to 16:00\nGroup 1.2. No power from 08:00 to 10:00"
	d := day(t)
	ivs, raw := ExtractIntervals(text, "1.1", d)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval got %d", len(ivs))
	}
	if got := ivs[0].Start; !got.Equal(d.Add(14 * time.Hour)) {
		t.Errorf("start = %v", got)
	}
	if got := ivs[0].End; !got.Equal(d.Add(16 * time.Hour)) {
		t.Errorf("end = %v", got)
	}
	if len(raw) != 1 || raw[0] != "14:00-16:00" {
		t.Errorf("raw = %v", raw)
	}
}

func TestExtractIntervals_SectionBoundary(t *testing.T) {
	// The 1.1 section must not swallow 1.2's ranges.
	text := "Group 1.1. No power from 14:00 to 16:00 Group 1.2. No power from 08:00 to 10:00"
	ivs, _ := ExtractIntervals(text, "1.1", day(t))
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval got %d", len(ivs))
	}
}

func TestExtractIntervals_MissingGroup(t *testing.T) {
	ivs, raw := ExtractIntervals("Group 1.1. No power from 14:00 to 16:00", "9.9", day(t))
	if ivs != nil || raw != nil {
		t.Fatalf("expected no data, got %v %v", ivs, raw)
	}
}

func TestExtractIntervals_PresentButEmpty(t *testing.T) {
	_, raw := ExtractIntervals("Group 1.1. No power is not expected today\n", "1.1", day(t))
	if raw == nil {
		t.Fatalf("section present: want zero outage, not missing data")
	}
	if len(raw) != 0 {
		t.Fatalf("raw = %v", raw)
	}
}

func TestExtractIntervals_EndOfDayLiteral(t *testing.T) {
	d := day(t)
	ivs, _ := ExtractIntervals("Group 2.1. No power from 22:00 to 24:00", "2.1", d)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval got %d", len(ivs))
	}
	want := d.AddDate(0, 0, 1)
	if !ivs[0].End.Equal(want) {
		t.Errorf("24:00 end = %v, want %v", ivs[0].End, want)
	}
}

func TestExtractIntervals_OvernightWrap(t *testing.T) {
	d := day(t)
	ivs, _ := ExtractIntervals("Group 2.1. No power from 23:00 to 01:00", "2.1", d)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval got %d", len(ivs))
	}
	want := d.AddDate(0, 0, 1).Add(time.Hour)
	if !ivs[0].End.Equal(want) {
		t.Errorf("wrapped end = %v, want %v", ivs[0].End, want)
	}
	if !ivs[0].End.After(ivs[0].Start) {
		t.Errorf("end not after start")
	}
}

func TestExtractIntervals_NoDoubleAdvance(t *testing.T) {
	// 24:00 already resolves to the next day; the wrap rule must not add
	// another 24 hours on top of it.
	d := day(t)
	ivs, _ := ExtractIntervals("Group 3.2. No power from 00:00 to 24:00", "3.2", d)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval got %d", len(ivs))
	}
	if got := ivs[0].Duration(); got != 24*time.Hour {
		t.Errorf("duration = %v, want 24h", got)
	}
}

func TestExtractIntervals_EqualEndpointsWrap(t *testing.T) {
	// end == start is "not strictly after", so it wraps a full day too.
	d := day(t)
	ivs, _ := ExtractIntervals("Group 3.2. No power from 10:00 to 10:00", "3.2", d)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval got %d", len(ivs))
	}
	if got := ivs[0].Duration(); got != 24*time.Hour {
		t.Errorf("duration = %v, want 24h", got)
	}
}

func TestExtractIntervals_SortedAfterResolution(t *testing.T) {
	d := day(t)
	ivs, raw := ExtractIntervals("Group 4.1. No power from 16:00 to 18:00, from 06:00 to 08:00", "4.1", d)
	if len(ivs) != 2 {
		t.Fatalf("expected 2 intervals got %d", len(ivs))
	}
	if !ivs[0].Start.Before(ivs[1].Start) {
		t.Errorf("intervals not sorted: %v", ivs)
	}
	// Raw strings keep source order.
	if raw[0] != "16:00-18:00" || raw[1] != "06:00-08:00" {
		t.Errorf("raw order changed: %v", raw)
	}
}

func TestExtractIntervals_OverlapPassthrough(t *testing.T) {
	// Overlapping input is an upstream anomaly; it must pass through
	// unmerged and must not panic downstream.
	d := day(t)
	ivs, _ := ExtractIntervals("Group 5.1. No power from 10:00 to 14:00, from 12:00 to 16:00", "5.1", d)
	if len(ivs) != 2 {
		t.Fatalf("expected overlap passthrough, got %d intervals", len(ivs))
	}
	_ = Complement(d, ivs)
	_ = SlotMap(d, ivs)
}

func TestCompute_EndToEnd(t *testing.T) {
	d := day(t)
	g := Compute("Group 1.1. No power from 14:00 to 16:00", "1.1", d)
	if g.Signature != "14:00-16:00" {
		t.Errorf("signature = %q", g.Signature)
	}
	if g.TotalOff != 2*time.Hour {
		t.Errorf("total = %v", g.TotalOff)
	}
	if g.PercentOff < 8.33 || g.PercentOff > 8.34 {
		t.Errorf("percent = %v", g.PercentOff)
	}
	pos := Complement(d, g.Intervals)
	if len(pos) != 2 {
		t.Fatalf("expected 2 positive intervals got %d", len(pos))
	}
	if !pos[0].Start.Equal(d) || !pos[0].End.Equal(d.Add(14*time.Hour)) {
		t.Errorf("first positive = %v", pos[0])
	}
	if !pos[1].Start.Equal(d.Add(16*time.Hour)) || !pos[1].End.Equal(d.AddDate(0, 0, 1)) {
		t.Errorf("second positive = %v", pos[1])
	}
}
