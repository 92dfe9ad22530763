// Package metrics defines the observability contract of the energy engine.
// Sinks such as the Prometheus and InfluxDB implementations in infra/metrics
// record station queries, range estimates and energy summaries. The factory
// returns a MultiSink when several sinks are configured.
package metrics
