package store

import "github.com/kilianp07/energycore/core/factory"

var (
	stationRegistry   = factory.NewRegistry[StationStore]()
	energyLogRegistry = factory.NewRegistry[EnergyLogStore]()
)

// RegisterStationStore adds a station store backend.
func RegisterStationStore(name string, f factory.Factory[StationStore]) error {
	return stationRegistry.Register(name, f)
}

// RegisterEnergyLogStore adds an energy log store backend.
func RegisterEnergyLogStore(name string, f factory.Factory[EnergyLogStore]) error {
	return energyLogRegistry.Register(name, f)
}

// NewStationStore builds the configured station backend.
func NewStationStore(cfg factory.ModuleConfig) (StationStore, error) {
	return stationRegistry.Create(cfg)
}

// NewEnergyLogStore builds the configured energy log backend.
func NewEnergyLogStore(cfg factory.ModuleConfig) (EnergyLogStore, error) {
	return energyLogRegistry.Create(cfg)
}
