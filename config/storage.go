package config

import (
	"fmt"

	"github.com/kilianp07/energycore/core/factory"
)

// StorageConfig selects the backends for stations and energy logs.
// Each block is {type, conf} as understood by the store registry.
type StorageConfig struct {
	Stations   factory.ModuleConfig `json:"stations"`
	EnergyLogs factory.ModuleConfig `json:"energy_logs"`
	// SeedSampleStations adds the demo stations when the station store is empty.
	SeedSampleStations bool `json:"seed_sample_stations"`
}

// SetDefaults selects in-memory stores when nothing is configured.
func (c *StorageConfig) SetDefaults() {
	if c.Stations.Type == "" {
		c.Stations.Type = "memory"
	}
	if c.EnergyLogs.Type == "" {
		c.EnergyLogs.Type = "memory"
	}
}

// Validate checks backend compatibility.
func (c StorageConfig) Validate() error {
	if c.EnergyLogs.Type == "redis" {
		return fmt.Errorf("redis backend only stores stations")
	}
	return nil
}
