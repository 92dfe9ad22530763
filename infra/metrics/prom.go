package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/energycore/core/metrics"
	"github.com/kilianp07/energycore/core/model"
)

// PromSink records engine events in Prometheus metrics.
type PromSink struct {
	stationQueries *prometheus.CounterVec
	queryLatency   *prometheus.HistogramVec
	stationsServed prometheus.Histogram
	rangeKm        *prometheus.HistogramVec
	summaries      prometheus.Counter
	logsIngested   *prometheus.CounterVec
}

// NewPromSink registers engine metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		stationQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "station_queries_total",
			Help: "Total number of station ranking requests",
		}, []string{"station_type", "ranked"}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "station_query_duration_seconds",
			Help:    "Time spent loading and ranking stations",
			Buckets: prometheus.DefBuckets,
		}, []string{"ranked"}),
		stationsServed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "station_query_results",
			Help:    "Number of stations returned per request",
			Buckets: []float64{0, 1, 5, 10, 25, 50},
		}),
		rangeKm: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vehicle_range_estimate_km",
			Help:    "Estimated remaining range in kilometers",
			Buckets: prometheus.LinearBuckets(0, 100, 11),
		}, []string{"vehicle_type"}),
		summaries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "energy_summaries_total",
			Help: "Total number of energy summaries computed",
		}),
		logsIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "energy_logs_ingested_total",
			Help: "Energy log records received per source",
		}, []string{"source", "status"}),
	}

	var err error
	if s.stationQueries, err = register(reg, s.stationQueries); err != nil {
		return nil, err
	}
	if s.queryLatency, err = register(reg, s.queryLatency); err != nil {
		return nil, err
	}
	if s.stationsServed, err = register(reg, s.stationsServed); err != nil {
		return nil, err
	}
	if s.rangeKm, err = register(reg, s.rangeKm); err != nil {
		return nil, err
	}
	if s.summaries, err = register(reg, s.summaries); err != nil {
		return nil, err
	}
	if s.logsIngested, err = register(reg, s.logsIngested); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when c is a duplicate.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordStationQuery counts the request and observes its latency.
func (s *PromSink) RecordStationQuery(ev coremetrics.StationQueryEvent) error {
	ranked := strconv.FormatBool(ev.Ranked)
	typ := ev.StationType
	if typ == "" {
		typ = "all"
	}
	s.stationQueries.WithLabelValues(typ, ranked).Inc()
	s.queryLatency.WithLabelValues(ranked).Observe(ev.Duration.Seconds())
	s.stationsServed.Observe(float64(ev.Returned))
	return nil
}

// RecordRangeEstimate observes the estimated range.
func (s *PromSink) RecordRangeEstimate(ev coremetrics.RangeEstimateEvent) error {
	s.rangeKm.WithLabelValues(model.VehicleType(ev.VehicleType).Label()).Observe(float64(ev.RangeKm))
	return nil
}

// RecordEnergySummary counts computed summaries.
func (s *PromSink) RecordEnergySummary(coremetrics.EnergySummaryEvent) error {
	s.summaries.Inc()
	return nil
}

// RecordEnergyLog counts an ingested or rejected energy log.
func (s *PromSink) RecordEnergyLog(source string, ok bool) error {
	status := "accepted"
	if !ok {
		status = "rejected"
	}
	s.logsIngested.WithLabelValues(source, status).Inc()
	return nil
}
