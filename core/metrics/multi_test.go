package metrics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordStationQuery(StationQueryEvent) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordRangeEstimate(RangeEstimateEvent) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordEnergySummary(EnergySummaryEvent) error {
	r.count++
	return r.err
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	require.NoError(t, m.RecordStationQuery(StationQueryEvent{}))
	require.NoError(t, m.RecordRangeEstimate(RangeEstimateEvent{}))
	require.NoError(t, m.RecordEnergySummary(EnergySummaryEvent{}))
	// recordSink does not implement EnergyLogRecorder
	require.NoError(t, m.RecordEnergyLog("mqtt", true))
	assert.Equal(t, 3, s1.count)
	assert.Equal(t, 3, s2.count)
}

func TestMultiSinkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	assert.ErrorIs(t, m.RecordRangeEstimate(RangeEstimateEvent{}), boom)
	assert.Equal(t, 0, s2.count)
}
