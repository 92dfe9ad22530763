package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/energycore/core/energy"
	"github.com/kilianp07/energycore/core/engine"
	"github.com/kilianp07/energycore/core/geo"
	coremetrics "github.com/kilianp07/energycore/core/metrics"
	"github.com/kilianp07/energycore/core/model"
	"github.com/kilianp07/energycore/infra/logger"
	"github.com/kilianp07/energycore/infra/store"
)

type captureSink struct {
	queries   []coremetrics.StationQueryEvent
	ranges    []coremetrics.RangeEstimateEvent
	summaries []coremetrics.EnergySummaryEvent
}

func (c *captureSink) RecordStationQuery(ev coremetrics.StationQueryEvent) error {
	c.queries = append(c.queries, ev)
	return nil
}

func (c *captureSink) RecordRangeEstimate(ev coremetrics.RangeEstimateEvent) error {
	c.ranges = append(c.ranges, ev)
	return nil
}

func (c *captureSink) RecordEnergySummary(ev coremetrics.EnergySummaryEvent) error {
	c.summaries = append(c.summaries, ev)
	return errors.New("sink down")
}

// logSink also counts ingested energy logs by outcome.
type logSink struct {
	captureSink
	accepted, rejected int
}

func (l *logSink) RecordEnergyLog(source string, ok bool) error {
	if source != "api" {
		return errors.New("unexpected source " + source)
	}
	if ok {
		l.accepted++
	} else {
		l.rejected++
	}
	return nil
}

// failingLogStore rejects every write.
type failingLogStore struct{ *store.MemoryStore }

func (failingLogStore) AddEnergyLog(context.Context, model.EnergyLogRecord) (model.EnergyLogRecord, error) {
	return model.EnergyLogRecord{}, errors.New("disk full")
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) (*engine.Engine, *captureSink) {
	t.Helper()
	st := store.NewMemoryStore()
	sink := &captureSink{}
	e := engine.New(st, st, sink, logger.NopLogger{}, engine.WithClock(func() time.Time { return fixedNow }))
	return e, sink
}

func TestNearbyStations(t *testing.T) {
	e, sink := newEngine(t)
	ctx := context.Background()
	n, err := e.SeedStations(ctx, engine.SampleStations())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// seeding twice is a no-op
	n, err = e.SeedStations(ctx, engine.SampleStations())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	ref := geo.GeoPoint{Latitude: 28.61, Longitude: 77.20}
	res, err := e.NearbyStations(ctx, &ref, nil)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "Hybrid Station", res[0].Name)
	assert.Equal(t, "Shell Petrol Station", res[1].Name)
	assert.Equal(t, "EV Charging Hub", res[2].Name)
	require.NotNil(t, res[0].DistanceKm)

	ev := model.StationEVCharging
	res, err = e.NearbyStations(ctx, nil, &ev)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Nil(t, res[0].DistanceKm)

	require.Len(t, sink.queries, 2)
	assert.True(t, sink.queries[0].Ranked)
	assert.Equal(t, "EV_Charging", sink.queries[1].StationType)
	assert.Equal(t, 1, sink.queries[1].Returned)

	_, err = e.NearbyStations(ctx, &geo.GeoPoint{Latitude: 95}, nil)
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestAddStationNormalizesType(t *testing.T) {
	e, _ := newEngine(t)
	st, err := e.AddStation(context.Background(), model.Station{
		Name:     "Gas",
		Type:     "cnc",
		Location: geo.GeoPoint{Latitude: 1, Longitude: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StationCNG, st.Type)
	assert.NotEmpty(t, st.ID)

	_, err = e.AddStation(context.Background(), model.Station{Name: "x", Type: "diesel"})
	assert.ErrorIs(t, err, model.ErrInvalidStationType)
}

func TestEstimateRangeRecordsMetric(t *testing.T) {
	e, sink := newEngine(t)
	res, err := e.EstimateRange(model.VehicleEnergyState{VehicleType: model.VehicleEV, CurrentBattery: model.Float(45)})
	require.NoError(t, err)
	assert.Equal(t, 270, res.RangeKm)
	require.Len(t, sink.ranges, 1)
	assert.Equal(t, 270, sink.ranges[0].RangeKm)

	_, err = e.EstimateRange(model.VehicleEnergyState{VehicleType: model.VehicleEV, CurrentBattery: model.Float(-1)})
	assert.ErrorIs(t, err, model.ErrInvalidEnergyState)
	assert.Len(t, sink.ranges, 1)

	_, err = e.EstimateRange(model.VehicleEnergyState{VehicleType: "junk-1"})
	require.NoError(t, err)
	_, err = e.EstimateRange(model.VehicleEnergyState{VehicleType: "Petrol"})
	require.NoError(t, err)
	require.Len(t, sink.ranges, 3)
	assert.Equal(t, "ev", sink.ranges[0].VehicleType)
	assert.Equal(t, "other", sink.ranges[1].VehicleType)
	assert.Equal(t, "petrol", sink.ranges[2].VehicleType)
}

func TestAddEnergyLogRecordsOutcome(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	sink := &logSink{}
	e := engine.New(mem, mem, sink, logger.NopLogger{}, engine.WithClock(func() time.Time { return fixedNow }))

	_, err := e.AddEnergyLog(ctx, model.EnergyLogRecord{UserID: "u1", VehicleID: "v1", EnergyConsumed: 4, DistanceTraveled: 20})
	require.NoError(t, err)
	_, err = e.AddEnergyLog(ctx, model.EnergyLogRecord{UserID: "u1", VehicleID: "v1"})
	assert.ErrorIs(t, err, model.ErrInvalidEnergyLog)

	broken := engine.New(mem, failingLogStore{mem}, sink, logger.NopLogger{})
	_, err = broken.AddEnergyLog(ctx, model.EnergyLogRecord{UserID: "u1", VehicleID: "v1", EnergyConsumed: 4})
	require.Error(t, err)

	assert.Equal(t, 1, sink.accepted)
	assert.Equal(t, 2, sink.rejected)
}

func TestEnergySummaryWindow(t *testing.T) {
	e, sink := newEngine(t)
	ctx := context.Background()
	for _, r := range []model.EnergyLogRecord{
		{UserID: "u1", VehicleID: "v1", EnergyConsumed: 20, DistanceTraveled: 120, Cost: 10, CO2Emissions: 2, Timestamp: fixedNow.AddDate(0, 0, -1)},
		{UserID: "u1", VehicleID: "v1", EnergyConsumed: 10, DistanceTraveled: 50, Cost: 5, CO2Emissions: 1, Timestamp: fixedNow.AddDate(0, 0, -3)},
		{UserID: "u1", VehicleID: "v1", EnergyConsumed: 99, DistanceTraveled: 1, Timestamp: fixedNow.AddDate(0, 0, -45)},
		{UserID: "u2", VehicleID: "v9", EnergyConsumed: 5, DistanceTraveled: 5},
	} {
		_, err := e.AddEnergyLog(ctx, r)
		require.NoError(t, err)
	}

	rep, err := e.EnergySummary(ctx, "u1", "", energy.NewWindow(0))
	require.NoError(t, err)
	assert.Equal(t, 30, rep.Days)
	assert.Equal(t, 2, rep.LogCount)
	assert.InDelta(t, 30.0, rep.TotalEnergy, 1e-9)
	assert.InDelta(t, 170.0, rep.TotalDistance, 1e-9)
	assert.InDelta(t, 15.0, rep.TotalCost, 1e-9)
	assert.InDelta(t, 3.0, rep.TotalCO2, 1e-9)
	assert.InDelta(t, 170.0/30.0, rep.AverageEfficiency, 1e-9)
	// a failing sink does not fail the request
	require.Len(t, sink.summaries, 1)

	rep, err = e.EnergySummary(ctx, "u1", "v1", energy.NewWindow(60))
	require.NoError(t, err)
	assert.Equal(t, 3, rep.LogCount)

	logs, err := e.EnergyLogs(ctx, "u2", "", energy.NewWindow(1))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Timestamp.Equal(fixedNow))

	_, err = e.AddEnergyLog(ctx, model.EnergyLogRecord{UserID: "u1", VehicleID: "v1"})
	assert.ErrorIs(t, err, model.ErrInvalidEnergyLog)
}
