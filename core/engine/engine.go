// Package engine connects the pure ranking, range and aggregation components
// to the stores and metrics sinks. Both the HTTP API and the CLI go through it.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/energycore/core/energy"
	"github.com/kilianp07/energycore/core/geo"
	"github.com/kilianp07/energycore/core/logger"
	coremetrics "github.com/kilianp07/energycore/core/metrics"
	"github.com/kilianp07/energycore/core/model"
	"github.com/kilianp07/energycore/core/rangeest"
	"github.com/kilianp07/energycore/core/ranking"
	"github.com/kilianp07/energycore/core/store"
)

// Engine serves station, range and energy requests.
type Engine struct {
	stations store.StationStore
	logs     store.EnergyLogStore
	metrics  coremetrics.Sink
	log      logger.Logger
	now      func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the time source used for windows and new records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. A nil sink disables metrics.
func New(stations store.StationStore, logs store.EnergyLogStore, sink coremetrics.Sink, log logger.Logger, opts ...Option) *Engine {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	e := &Engine{
		stations: stations,
		logs:     logs,
		metrics:  sink,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// SummaryReport is an energy summary together with the window it covers.
type SummaryReport struct {
	energy.Summary
	Days int `json:"days"`
}

// NearbyStations loads the stored stations and ranks them around ref.
func (e *Engine) NearbyStations(ctx context.Context, ref *geo.GeoPoint, filter *model.StationType) ([]ranking.RankedStation, error) {
	start := time.Now()
	all, err := e.stations.ListStations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	// the store already applied the filter
	res, err := ranking.RankWithDistance(ref, all, nil)
	if err != nil {
		return nil, err
	}
	ev := coremetrics.StationQueryEvent{
		Ranked:     ref != nil,
		Candidates: len(all),
		Returned:   len(res),
		Duration:   time.Since(start),
		Time:       e.now(),
	}
	if filter != nil {
		ev.StationType = string(*filter)
	}
	e.record(e.metrics.RecordStationQuery(ev))
	return res, nil
}

// AddStation validates and stores st.
func (e *Engine) AddStation(ctx context.Context, st model.Station) (model.Station, error) {
	typ, err := model.ParseStationType(string(st.Type))
	if err != nil {
		return model.Station{}, err
	}
	st.Type = typ
	if err := st.Validate(); err != nil {
		return model.Station{}, err
	}
	saved, err := e.stations.AddStation(ctx, st)
	if err != nil {
		return model.Station{}, fmt.Errorf("add station: %w", err)
	}
	e.log.Infow("station added", map[string]any{"id": saved.ID, "type": string(saved.Type)})
	return saved, nil
}

// SeedStations adds stations when the store holds none yet.
func (e *Engine) SeedStations(ctx context.Context, stations []model.Station) (int, error) {
	existing, err := e.stations.ListStations(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("list stations: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, st := range stations {
		if _, err := e.AddStation(ctx, st); err != nil {
			return 0, err
		}
	}
	return len(stations), nil
}

// EstimateRange computes the remaining range for state.
func (e *Engine) EstimateRange(state model.VehicleEnergyState) (rangeest.RangeResult, error) {
	res, err := rangeest.EstimateRange(state)
	if err != nil {
		return rangeest.RangeResult{}, err
	}
	e.record(e.metrics.RecordRangeEstimate(coremetrics.RangeEstimateEvent{
		VehicleType: state.VehicleType.Label(),
		RangeKm:     res.RangeKm,
		Time:        e.now(),
	}))
	return res, nil
}

// AddEnergyLog validates r, derives its efficiency and stores it.
func (e *Engine) AddEnergyLog(ctx context.Context, r model.EnergyLogRecord) (model.EnergyLogRecord, error) {
	if r.Timestamp.IsZero() {
		r.Timestamp = e.now()
	}
	rec, err := model.NewEnergyLogRecord(r)
	if err != nil {
		e.recordEnergyLog(false)
		return model.EnergyLogRecord{}, err
	}
	saved, err := e.logs.AddEnergyLog(ctx, rec)
	if err != nil {
		e.recordEnergyLog(false)
		return model.EnergyLogRecord{}, fmt.Errorf("add energy log: %w", err)
	}
	e.recordEnergyLog(true)
	return saved, nil
}

func (e *Engine) recordEnergyLog(ok bool) {
	if rec, isRec := e.metrics.(coremetrics.EnergyLogRecorder); isRec {
		e.record(rec.RecordEnergyLog("api", ok))
	}
}

// EnergyLogs returns the user's logs inside the window, optionally for one vehicle.
func (e *Engine) EnergyLogs(ctx context.Context, userID, vehicleID string, w energy.Window) ([]model.EnergyLogRecord, error) {
	logs, err := e.logs.QueryEnergyLogs(ctx, store.EnergyLogQuery{
		UserID:    userID,
		VehicleID: vehicleID,
		Since:     w.Since(e.now()),
	})
	if err != nil {
		return nil, fmt.Errorf("query energy logs: %w", err)
	}
	return logs, nil
}

// EnergySummary aggregates the user's logs inside the window.
func (e *Engine) EnergySummary(ctx context.Context, userID, vehicleID string, w energy.Window) (SummaryReport, error) {
	logs, err := e.EnergyLogs(ctx, userID, vehicleID, w)
	if err != nil {
		return SummaryReport{}, err
	}
	sum := energy.AggregateEnergy(logs)
	e.record(e.metrics.RecordEnergySummary(coremetrics.EnergySummaryEvent{
		UserID:            userID,
		VehicleID:         vehicleID,
		WindowDays:        w.Days,
		LogCount:          sum.LogCount,
		TotalEnergy:       sum.TotalEnergy,
		TotalDistance:     sum.TotalDistance,
		AverageEfficiency: sum.AverageEfficiency,
		Time:              e.now(),
	}))
	return SummaryReport{Summary: sum, Days: w.Days}, nil
}

func (e *Engine) record(err error) {
	if err != nil {
		e.log.Warnf("metrics record error: %v", err)
	}
}
