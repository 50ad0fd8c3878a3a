package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	entries := []Entry{
		{Date: "2024-01-10", Group: "1.1", TotalSeconds: 3600},
		{Date: "2024-01-11", Group: "1.1", TotalSeconds: 7200},
		{Date: "2024-01-10", Group: "1.2", TotalSeconds: 1800},
		// Retired group: ignored for aggregation, still counted as a date.
		{Date: "2024-01-12", Group: "9.9", TotalSeconds: 9999},
	}
	stats, days := Aggregate(entries, []string{"1.1", "1.2"})
	assert.Equal(t, 3, days)
	assert.Len(t, stats, 2)

	assert.Equal(t, "1.1", stats[0].Group)
	assert.Equal(t, 2, stats[0].Days)
	assert.InDelta(t, 5400.0, stats[0].MeanSeconds, 1e-9)
	assert.Equal(t, int64(7200), stats[0].MaxSeconds)
	assert.Equal(t, int64(10800), stats[0].TotalSeconds)

	assert.Equal(t, "1.2", stats[1].Group)
	assert.Equal(t, int64(1800), stats[1].TotalSeconds)
}

func TestAggregate_Empty(t *testing.T) {
	stats, days := Aggregate(nil, []string{"1.1"})
	assert.Empty(t, stats)
	assert.Zero(t, days)
}

func TestAggregate_GroupWithoutEntriesOmitted(t *testing.T) {
	entries := []Entry{{Date: "2024-01-10", Group: "1.1", TotalSeconds: 60}}
	stats, _ := Aggregate(entries, []string{"1.1", "2.2"})
	assert.Len(t, stats, 1)
	assert.Equal(t, "1.1", stats[0].Group)
}
