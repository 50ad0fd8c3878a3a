package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordGroupDay forwards the event to all sinks.
func (m *MultiSink) RecordGroupDay(ev GroupDayEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordGroupDay(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSync forwards the event to all sinks.
func (m *MultiSink) RecordSync(ev SyncEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSync(ev); err != nil {
			return err
		}
	}
	return nil
}
