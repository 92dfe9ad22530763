package metrics

// MultiSink fanouts events to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStationQuery forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordStationQuery(ev StationQueryEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordStationQuery(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRangeEstimate forwards range events.
func (m *MultiSink) RecordRangeEstimate(ev RangeEstimateEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRangeEstimate(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordEnergySummary forwards summary events.
func (m *MultiSink) RecordEnergySummary(ev EnergySummaryEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordEnergySummary(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordEnergyLog forwards ingestion counts when supported by the sink.
func (m *MultiSink) RecordEnergyLog(source string, ok bool) error {
	for _, s := range m.Sinks {
		if rec, isRec := s.(EnergyLogRecorder); isRec {
			if err := rec.RecordEnergyLog(source, ok); err != nil {
				return err
			}
		}
	}
	return nil
}
