package metrics

import "github.com/kilianp07/energycore/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr, when set, exposes /metrics on a dedicated listener.
	PrometheusAddr string `json:"prometheus_addr"`
}
