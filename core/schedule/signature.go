package schedule

import "strings"

// Signature derives a deterministic, order-sensitive string from a sorted
// interval list: wall-clock boundaries joined with "|". An empty list yields
// the empty string.
//
// The signature deliberately ignores date and timezone, so it must only be
// compared between values computed for the same group and day.
func Signature(intervals []Interval) string {
	if len(intervals) == 0 {
		return ""
	}
	parts := make([]string, len(intervals))
	for i, iv := range intervals {
		parts[i] = iv.Clock()
	}
	return strings.Join(parts, "|")
}
