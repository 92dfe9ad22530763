package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/energycore/core/geo"
)

func TestParseVehicleType(t *testing.T) {
	cases := map[string]VehicleType{
		"EV":      VehicleEV,
		" ev ":    VehicleEV,
		"Petrol":  VehiclePetrol,
		"HYBRID":  VehicleHybrid,
		"cng":     VehicleCNG,
		"cnc":     VehicleCNG,
		"diesel":  VehicleType("diesel"),
		"unknown": VehicleType("unknown"),
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseVehicleType(in), in)
	}
	assert.True(t, VehicleCNG.Known())
	assert.False(t, VehicleType("diesel").Known())
}

func TestVehicleTypeLabel(t *testing.T) {
	assert.Equal(t, "ev", VehicleType("EV").Label())
	assert.Equal(t, "cng", VehicleType("cnc").Label())
	assert.Equal(t, OtherVehicleLabel, VehicleType("junk-17").Label())
	assert.Equal(t, OtherVehicleLabel, VehicleType("").Label())
}

func TestVehicleEnergyStateValidate(t *testing.T) {
	ok := VehicleEnergyState{VehicleType: VehicleEV, BatteryCapacity: Float(60), CurrentBattery: Float(0)}
	assert.NoError(t, ok.Validate())
	assert.NoError(t, VehicleEnergyState{}.Validate())

	bad := []VehicleEnergyState{
		{FuelCapacity: Float(-1)},
		{CurrentFuel: Float(-0.1)},
		{BatteryCapacity: Float(math.NaN())},
		{CurrentBattery: Float(math.Inf(1))},
		{Efficiency: Float(-6)},
	}
	for _, s := range bad {
		assert.ErrorIs(t, s.Validate(), ErrInvalidEnergyState)
	}
}

func TestParseStationType(t *testing.T) {
	st, err := ParseStationType("ev_charging")
	require.NoError(t, err)
	assert.Equal(t, StationEVCharging, st)

	st, err = ParseStationType("CNC")
	require.NoError(t, err)
	assert.Equal(t, StationCNG, st)

	_, err = ParseStationType("hydrogen")
	assert.ErrorIs(t, err, ErrInvalidStationType)
}

func TestStationValidate(t *testing.T) {
	s := Station{Name: "Shell", Type: StationPetrol, Location: geo.GeoPoint{Latitude: 28.7, Longitude: 77.1}}
	assert.NoError(t, s.Validate())

	s.Location.Latitude = 120
	assert.ErrorIs(t, s.Validate(), geo.ErrInvalidCoordinate)

	s = Station{Type: StationPetrol}
	assert.ErrorIs(t, s.Validate(), ErrInvalidStation)
}

func TestNewEnergyLogRecordDerivesEfficiency(t *testing.T) {
	r, err := NewEnergyLogRecord(EnergyLogRecord{EnergyConsumed: 10, DistanceTraveled: 150, Cost: 1000})
	require.NoError(t, err)
	assert.Equal(t, 15.0, r.Efficiency)
	assert.False(t, r.Timestamp.IsZero())

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r, err = NewEnergyLogRecord(EnergyLogRecord{EnergyConsumed: 4, DistanceTraveled: 0, Timestamp: ts})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Efficiency)
	assert.Equal(t, ts, r.Timestamp)
}

func TestNewEnergyLogRecordRejects(t *testing.T) {
	bad := []EnergyLogRecord{
		{EnergyConsumed: 0, DistanceTraveled: 10},
		{EnergyConsumed: -1},
		{EnergyConsumed: 1, DistanceTraveled: -1},
		{EnergyConsumed: 1, Cost: -5},
		{EnergyConsumed: 1, CO2Emissions: math.NaN()},
	}
	for _, r := range bad {
		_, err := NewEnergyLogRecord(r)
		assert.ErrorIs(t, err, ErrInvalidEnergyLog)
	}
}

func TestDeriveEfficiencyZeroEnergy(t *testing.T) {
	assert.Equal(t, 0.0, DeriveEfficiency(100, 0))
	assert.Equal(t, 0.0, DeriveEfficiency(100, -2))
	assert.Equal(t, 12.5, DeriveEfficiency(100, 8))
}
