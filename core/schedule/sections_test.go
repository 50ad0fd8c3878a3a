package schedule

import (
	"testing"
	"time"
)

const page = `Information as of 10.01.2024 08:15
Outage schedule for 11.01.2024
Group 1.1. No power from 02:00 to 04:00
Outage schedule for 10.01.2024
Group 1.1. No power from 14:00 to 16:00
Group 1.2. No power from 06:00 to 08:00
`

func TestSplitSections(t *testing.T) {
	sections := SplitSections(page, kyiv)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections got %d", len(sections))
	}
	// Sorted ascending even though the page lists tomorrow first.
	if !sections[0].Date.Equal(DayStart(2024, time.January, 10, kyiv)) {
		t.Errorf("first date = %v", sections[0].Date)
	}
	if !sections[1].Date.Equal(DayStart(2024, time.January, 11, kyiv)) {
		t.Errorf("second date = %v", sections[1].Date)
	}
	ivs, _ := ExtractIntervals(sections[0].Text, "1.1", sections[0].Date)
	if len(ivs) != 1 || ivs[0].Start.Hour() != 14 {
		t.Errorf("section text not sliced correctly: %v", ivs)
	}
}

func TestSplitSections_MalformedDateSkipped(t *testing.T) {
	text := "Outage schedule for 99.99.2024\nGroup 1.1. No power from 02:00 to 04:00\n" + page
	sections := SplitSections(text, kyiv)
	if len(sections) != 2 {
		t.Fatalf("malformed header must be skipped, got %d sections", len(sections))
	}
}

func TestSplitSections_Empty(t *testing.T) {
	if got := SplitSections("no schedules on this page", kyiv); len(got) != 0 {
		t.Fatalf("expected no sections, got %v", got)
	}
}

func TestUpdatedAt(t *testing.T) {
	if got := UpdatedAt(page); got != "10.01.2024 08:15" {
		t.Fatalf("updated at = %q", got)
	}
	if got := UpdatedAt("nothing here"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}
