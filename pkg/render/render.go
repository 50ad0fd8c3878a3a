// Package render formats schedules and history summaries for the terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/pkozlov/blackoutcal/core/history"
	"github.com/pkozlov/blackoutcal/core/schedule"
)

// DayRow is one group's line in the per-day schedule table.
type DayRow struct {
	Group      string
	Slots      [schedule.SlotCount]bool
	Ranges     []string
	TotalOff   time.Duration
	PercentOff float64
	// Status is the classification label ("new day", "CHANGED", "unchanged").
	Status string
	// NoData marks a configured group missing from the published text.
	NoData bool
}

// Printer writes formatted output.
type Printer struct {
	w        io.Writer
	useColor bool
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter(useColor bool) *Printer {
	return &Printer{w: os.Stdout, useColor: useColor}
}

// NewPrinterTo creates a Printer writing to w.
func NewPrinterTo(w io.Writer, useColor bool) *Printer {
	return &Printer{w: w, useColor: useColor}
}

// FormatDuration renders a duration as "5h 30m".
func FormatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%dh %02dm", total/3600, total%3600/60)
}

// FormatSeconds renders seconds as "5h 30m".
func FormatSeconds(seconds float64) string {
	return FormatDuration(time.Duration(seconds) * time.Second)
}

// TimelineBar renders the 48-slot occupancy map as a two-line bar with an
// hour ruler on top.
func (p *Printer) TimelineBar(slots [schedule.SlotCount]bool) string {
	labels := []string{"00", "04", "08", "12", "16", "20"}
	sep := "│"
	var ruler, bar strings.Builder
	for i := 0; i < schedule.SlotCount; i += 8 {
		if i > 0 {
			ruler.WriteString(sep)
			bar.WriteString(sep)
		}
		label := "  "
		if idx := i / 8; idx < len(labels) {
			label = labels[idx]
		}
		ruler.WriteString(fmt.Sprintf("%-8s", label))
		for _, off := range slots[i : i+8] {
			bar.WriteString(p.slotCell(off))
		}
	}
	ruler.WriteString(sep + "24")
	bar.WriteString(sep)
	return ruler.String() + "\n" + bar.String()
}

func (p *Printer) slotCell(blackout bool) string {
	if !p.useColor {
		if blackout {
			return "█"
		}
		return "░"
	}
	if blackout {
		return color.New(color.FgRed).Sprint("█")
	}
	return color.New(color.FgGreen).Sprint("█")
}

// DaySchedule prints one day's table across all configured groups.
func (p *Printer) DaySchedule(date time.Time, rows []DayRow) {
	fmt.Fprintf(p.w, "📅 Schedule for %s (%s)\n", date.Format("02.01.2006"), date.Weekday())

	table := tablewriter.NewWriter(p.w)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"Group", "Timeline", "Hours", "Off", "Status"})

	for _, row := range rows {
		hours := strings.Join(row.Ranges, "\n")
		if row.NoData {
			hours = "no data"
		} else if len(row.Ranges) == 0 {
			hours = p.paint("power on", color.FgGreen)
		}
		off := fmt.Sprintf("%s\n%s", FormatDuration(row.TotalOff), p.percentCell(row.PercentOff))
		table.Append([]string{
			row.Group,
			p.TimelineBar(row.Slots),
			hours,
			off,
			row.Status,
		})
	}
	table.Render()
	fmt.Fprintln(p.w)
}

func (p *Printer) percentCell(pct float64) string {
	text := fmt.Sprintf("%.0f%% of day", pct)
	switch {
	case pct > 50:
		return p.paint(text, color.FgRed)
	case pct > 30:
		return p.paint(text, color.FgYellow)
	default:
		return p.paint(text, color.FgGreen)
	}
}

func (p *Printer) paint(text string, attr color.Attribute) string {
	if !p.useColor {
		return text
	}
	return color.New(attr).Sprint(text)
}

// HistorySummary prints aggregate statistics over the full history log.
func (p *Printer) HistorySummary(stats []history.GroupStats, days int) {
	fmt.Fprintf(p.w, "📊 Summary statistics (%d days recorded)\n", days)

	table := tablewriter.NewWriter(p.w)
	table.SetBorder(true)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetHeader([]string{"Group", "Days", "Average", "Maximum", "Total"})

	for _, s := range stats {
		table.Append([]string{
			s.Group,
			fmt.Sprintf("%d", s.Days),
			FormatSeconds(s.MeanSeconds),
			FormatSeconds(float64(s.MaxSeconds)),
			fmt.Sprintf("%dh", s.TotalSeconds/3600),
		})
	}
	table.Render()
}
