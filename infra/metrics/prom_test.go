package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/pkozlov/blackoutcal/core/metrics"
)

func TestPromSink_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordRun(coremetrics.RunEvent{Time: time.Now(), Success: true, Dates: 2, Groups: 12}))
	require.NoError(t, sink.RecordGroupDay(coremetrics.GroupDayEvent{
		Group: "1.1", Date: "2024-01-10", OffSeconds: 7200, PercentOff: 8.33, Classification: "changed",
	}))
	require.NoError(t, sink.RecordSync(coremetrics.SyncEvent{
		Group: "1.1", Date: "2024-01-10", Deleted: 2, Inserted: 1, Synced: true,
	}))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"outage_runs_total",
		"outage_group_days_total",
		"outage_off_seconds",
		"outage_sync_operations_total",
		"outage_syncs_total",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestPromSink_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	// A second sink on the same registry must reuse the collectors instead
	// of failing.
	_, err = NewPromSinkWithRegistry(reg)
	assert.NoError(t, err)
}

func TestSinkFactory(t *testing.T) {
	sink, err := coremetrics.NewSink(nil)
	require.NoError(t, err)
	assert.IsType(t, coremetrics.NopSink{}, sink)
}
