package metrics

import "time"

// StationQueryEvent describes one ranking request.
type StationQueryEvent struct {
	StationType string
	Ranked      bool
	Candidates  int
	Returned    int
	Duration    time.Duration
	Time        time.Time
}

// RangeEstimateEvent describes one range computation.
type RangeEstimateEvent struct {
	VehicleType string
	RangeKm     int
	Time        time.Time
}

// EnergySummaryEvent describes one aggregation over a user's logs.
type EnergySummaryEvent struct {
	UserID            string
	VehicleID         string
	WindowDays        int
	LogCount          int
	TotalEnergy       float64
	TotalDistance     float64
	AverageEfficiency float64
	Time              time.Time
}

// Sink records engine events for observability purposes.
type Sink interface {
	RecordStationQuery(ev StationQueryEvent) error
	RecordRangeEstimate(ev RangeEstimateEvent) error
	RecordEnergySummary(ev EnergySummaryEvent) error
}

// EnergyLogRecorder is implemented by sinks that track ingested energy logs.
type EnergyLogRecorder interface {
	RecordEnergyLog(source string, ok bool) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordStationQuery(StationQueryEvent) error   { return nil }
func (NopSink) RecordRangeEstimate(RangeEstimateEvent) error { return nil }
func (NopSink) RecordEnergySummary(EnergySummaryEvent) error { return nil }

// Ensure NopSink implements EnergyLogRecorder.
func (NopSink) RecordEnergyLog(string, bool) error { return nil }
