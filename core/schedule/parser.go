package schedule

import (
	"regexp"
	"sort"
	"time"
)

var timeRangeRe = regexp.MustCompile(`from (\d{2}:\d{2}) to (\d{2}:\d{2})`)

// groupSectionRe matches the group's slice of the day's text. The section
// ends at the next newline, the next group label or the end of text.
func groupSectionRe(groupID string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)Group ` + regexp.QuoteMeta(groupID) + `\. No power (.*?)(?:\n|Group|$)`)
}

// ExtractIntervals pulls the blackout intervals for one group out of a
// single day's text section. day must be midnight of the target date in the
// desired timezone.
//
// A missing group section yields (nil, nil): "no published data", which is
// distinct from an empty-but-present section ("zero outage"). Ranges are
// returned sorted by start; raw strings keep source order.
func ExtractIntervals(text, groupID string, day time.Time) ([]Interval, []string) {
	m := groupSectionRe(groupID).FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}

	raw := []string{}
	intervals := []Interval{}
	for _, pair := range timeRangeRe.FindAllStringSubmatch(m[1], -1) {
		startLit, endLit := pair[1], pair[2]
		start, err := ResolveClock(day, startLit)
		if err != nil {
			continue
		}
		end, err := ResolveClock(day, endLit)
		if err != nil {
			continue
		}
		// An end clock at or before the start clock means the range crosses
		// midnight. "24:00" already resolved to the next day, so it never
		// gets advanced twice.
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		raw = append(raw, startLit+"-"+endLit)
		intervals = append(intervals, Interval{Start: start, End: end})
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Start.Before(intervals[j].Start) })
	return intervals, raw
}

// Compute builds the full per-group, per-day schedule from the day's text.
func Compute(text, groupID string, day time.Time) GroupSchedule {
	intervals, raw := ExtractIntervals(text, groupID, day)

	var total time.Duration
	for _, iv := range intervals {
		total += iv.Duration()
	}

	return GroupSchedule{
		GroupID:    groupID,
		Date:       day,
		Intervals:  intervals,
		RawRanges:  raw,
		Signature:  Signature(intervals),
		TotalOff:   total,
		PercentOff: PercentOff(total),
	}
}
