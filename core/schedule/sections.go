package schedule

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	headerRe    = regexp.MustCompile(`Outage schedule for (\d{2}\.\d{2}\.\d{4})`)
	updatedAtRe = regexp.MustCompile(`Information as of\s+(.*)`)
)

// Section is one date-labelled slice of the published page text.
type Section struct {
	// Date is midnight of the civil day in the timezone the sections were
	// split with.
	Date time.Time
	Text string
}

// SplitSections locates every date header in the page text and slices the
// text between consecutive headers; the last section runs to the end of the
// text. Headers with malformed dates are skipped. Sections are returned
// sorted from oldest to newest. An empty result means the page carried no
// recognizable schedule.
func SplitSections(text string, loc *time.Location) []Section {
	matches := headerRe.FindAllStringSubmatchIndex(text, -1)
	sections := make([]Section, 0, len(matches))
	for i, m := range matches {
		d, err := time.ParseInLocation("02.01.2006", text[m[2]:m[3]], loc)
		if err != nil {
			continue
		}
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections = append(sections, Section{Date: d, Text: text[m[1]:end]})
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Date.Before(sections[j].Date) })
	return sections
}

// UpdatedAt extracts the page's "Information as of" timestamp, if present.
func UpdatedAt(text string) string {
	m := updatedAtRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
