package schedule

import (
	"sort"
	"testing"
	"time"
)

func TestSignature_Empty(t *testing.T) {
	if got := Signature(nil); got != "" {
		t.Fatalf("empty signature = %q", got)
	}
}

func TestSignature_Deterministic(t *testing.T) {
	d := day(t)
	ivs := []Interval{
		{Start: d.Add(6 * time.Hour), End: d.Add(8 * time.Hour)},
		{Start: d.Add(14 * time.Hour), End: d.Add(16*time.Hour + 30*time.Minute)},
	}
	want := "06:00-08:00|14:00-16:30"
	if got := Signature(ivs); got != want {
		t.Fatalf("signature = %q, want %q", got, want)
	}
	if Signature(ivs) != Signature(ivs) {
		t.Fatal("signature not reflexive")
	}
}

func TestSignature_BoundarySensitive(t *testing.T) {
	d := day(t)
	a := []Interval{{Start: d.Add(6 * time.Hour), End: d.Add(8 * time.Hour)}}
	b := []Interval{{Start: d.Add(6 * time.Hour), End: d.Add(8*time.Hour + time.Minute)}}
	if Signature(a) == Signature(b) {
		t.Fatal("one-minute boundary change must alter the signature")
	}
	if Signature(a) == Signature(append(append([]Interval{}, a...), b...)) {
		t.Fatal("count change must alter the signature")
	}
}

func TestSignature_ConvergesAfterSort(t *testing.T) {
	d := day(t)
	sorted := []Interval{
		{Start: d.Add(6 * time.Hour), End: d.Add(8 * time.Hour)},
		{Start: d.Add(14 * time.Hour), End: d.Add(16 * time.Hour)},
	}
	shuffled := []Interval{sorted[1], sorted[0]}
	sort.Slice(shuffled, func(i, j int) bool { return shuffled[i].Start.Before(shuffled[j].Start) })
	if Signature(shuffled) != Signature(sorted) {
		t.Fatal("sorted reordering must converge to the same signature")
	}
}

func TestSignature_MidnightEnd(t *testing.T) {
	d := day(t)
	ivs := []Interval{{Start: d.Add(22 * time.Hour), End: d.AddDate(0, 0, 1)}}
	if got := Signature(ivs); got != "22:00-00:00" {
		t.Fatalf("midnight end signature = %q", got)
	}
}
