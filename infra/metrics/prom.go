package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/pkozlov/blackoutcal/core/metrics"
)

// PromSink records run and reconciliation events in Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	groupDay *prometheus.CounterVec
	offHours *prometheus.GaugeVec
	syncOps  *prometheus.CounterVec
	syncs    *prometheus.CounterVec
}

// NewPromSink registers the metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately in serve mode.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_runs_total",
		Help: "Total number of pipeline runs",
	}, []string{"success"})
	groupDay := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_group_days_total",
		Help: "Processed (group, day) pairs by classification",
	}, []string{"group", "classification"})
	offHours := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "outage_off_seconds",
		Help: "Latest computed blackout seconds per group",
	}, []string{"group"})
	syncOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_sync_operations_total",
		Help: "Remote calendar operations issued during reconciliation",
	}, []string{"group", "operation"})
	syncs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outage_syncs_total",
		Help: "Reconciled (group, day) pairs by outcome",
	}, []string{"group", "synced"})

	collectors := []prometheus.Collector{runs, groupDay, offHours, syncOps, syncs}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}

	return &PromSink{
		runs:     collectors[0].(*prometheus.CounterVec),
		groupDay: collectors[1].(*prometheus.CounterVec),
		offHours: collectors[2].(*prometheus.GaugeVec),
		syncOps:  collectors[3].(*prometheus.CounterVec),
		syncs:    collectors[4].(*prometheus.CounterVec),
	}, nil
}

// RecordRun increments the run counter.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(strconv.FormatBool(ev.Success)).Inc()
	return nil
}

// RecordGroupDay counts the classification and updates the outage gauge.
func (s *PromSink) RecordGroupDay(ev coremetrics.GroupDayEvent) error {
	s.groupDay.WithLabelValues(ev.Group, ev.Classification).Inc()
	s.offHours.WithLabelValues(ev.Group).Set(ev.OffSeconds)
	return nil
}

// RecordSync counts issued operations and the pair outcome.
func (s *PromSink) RecordSync(ev coremetrics.SyncEvent) error {
	s.syncOps.WithLabelValues(ev.Group, "delete").Add(float64(ev.Deleted))
	s.syncOps.WithLabelValues(ev.Group, "insert").Add(float64(ev.Inserted))
	s.syncOps.WithLabelValues(ev.Group, "failed").Add(float64(ev.Failed))
	s.syncs.WithLabelValues(ev.Group, strconv.FormatBool(ev.Synced)).Inc()
	return nil
}
