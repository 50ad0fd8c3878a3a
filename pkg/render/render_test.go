package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pkozlov/blackoutcal/core/history"
	"github.com/pkozlov/blackoutcal/core/schedule"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h 00m", FormatDuration(0))
	assert.Equal(t, "2h 30m", FormatDuration(2*time.Hour+30*time.Minute))
	assert.Equal(t, "24h 00m", FormatDuration(24*time.Hour))
}

func TestTimelineBar_PlainRuns(t *testing.T) {
	var slots [schedule.SlotCount]bool
	slots[0], slots[1] = true, true
	p := NewPrinterTo(&bytes.Buffer{}, false)
	out := p.TimelineBar(slots)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "00")
	assert.Contains(t, lines[0], "20")
	assert.True(t, strings.HasSuffix(lines[0], "24"))
	assert.True(t, strings.HasPrefix(lines[1], "██░"))
}

func TestDaySchedule_Renders(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo(&buf, false)
	p.DaySchedule(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), []DayRow{
		{Group: "1.1", Ranges: []string{"14:00-16:00"}, TotalOff: 2 * time.Hour, PercentOff: 8.3, Status: "new day"},
		{Group: "1.2", Status: "unchanged"},
		{Group: "9.9", NoData: true, Status: "unchanged"},
	})
	out := buf.String()
	assert.Contains(t, out, "10.01.2024")
	assert.Contains(t, out, "14:00-16:00")
	assert.Contains(t, out, "power on")
	assert.Contains(t, out, "no data")
	assert.Contains(t, out, "new day")
}

func TestHistorySummary_Renders(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterTo(&buf, false)
	p.HistorySummary([]history.GroupStats{
		{Group: "1.1", Days: 3, MeanSeconds: 5400, MaxSeconds: 7200, TotalSeconds: 16200},
	}, 3)
	out := buf.String()
	assert.Contains(t, out, "3 days recorded")
	assert.Contains(t, out, "1h 30m")
	assert.Contains(t, out, "2h 00m")
	assert.Contains(t, out, "4h")
}
