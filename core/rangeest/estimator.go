// Package rangeest estimates how far a vehicle can travel on its stored
// energy.
package rangeest

import (
	"fmt"
	"math"

	"github.com/kilianp07/energycore/core/model"
)

const (
	defaultEVBatteryKWh = 60.0
	defaultEVEfficiency = 6.0
	defaultFuelCapacity = 50.0
	defaultFuelEffKmL   = 15.0
	hybridBatteryKWh    = 20.0
	hybridFuelCapacity  = 40.0
	hybridBatteryEff    = 5.0
	hybridFuelEffKmL    = 12.0
	defaultFillFraction = 0.75

	unitUnknown    = "units"
	unknownDetails = "--"
)

// RangeResult is the outcome of an estimate.
type RangeResult struct {
	RangeKm int    `json:"range_km"`
	Unit    string `json:"unit"`
	Details string `json:"details"`
}

// EstimateRange computes the remaining range for s. Unrecognised vehicle
// types yield a zero result rather than an error.
func EstimateRange(s model.VehicleEnergyState) (RangeResult, error) {
	if err := s.Validate(); err != nil {
		return RangeResult{}, err
	}
	switch s.VehicleType {
	case model.VehicleEV:
		capacity := orDefault(s.BatteryCapacity, defaultEVBatteryKWh)
		current := stored(s.CurrentBattery, capacity)
		eff := orDefault(s.Efficiency, defaultEVEfficiency)
		return RangeResult{
			RangeKm: truncate(current * eff),
			Unit:    "kWh",
			Details: fmt.Sprintf("%.1f kWh available", current),
		}, nil
	case model.VehiclePetrol, model.VehicleCNG:
		capacity := orDefault(s.FuelCapacity, defaultFuelCapacity)
		current := stored(s.CurrentFuel, capacity)
		eff := orDefault(s.Efficiency, defaultFuelEffKmL)
		return RangeResult{
			RangeKm: truncate(current * eff),
			Unit:    "L",
			Details: fmt.Sprintf("%.1f L available", current),
		}, nil
	case model.VehicleHybrid:
		batCur := stored(s.CurrentBattery, orDefault(s.BatteryCapacity, hybridBatteryKWh))
		fuelCur := stored(s.CurrentFuel, orDefault(s.FuelCapacity, hybridFuelCapacity))
		batRange := truncate(batCur * orDefault(s.Efficiency, hybridBatteryEff))
		// The supplied efficiency only applies to the battery side; the fuel
		// side is pinned to 12 km/L. This asymmetry may be unintended but
		// existing clients depend on it.
		fuelRange := truncate(fuelCur * hybridFuelEffKmL)
		return RangeResult{
			RangeKm: batRange + fuelRange,
			Unit:    "hybrid",
			Details: fmt.Sprintf("%.1f kWh + %.1f L", batCur, fuelCur),
		}, nil
	default:
		return RangeResult{RangeKm: 0, Unit: unitUnknown, Details: unknownDetails}, nil
	}
}

// orDefault treats a missing or zero value as unset.
func orDefault(v *float64, def float64) float64 {
	if v == nil || *v == 0 {
		return def
	}
	return *v
}

// stored returns the stored amount, or a 75% fill of capacity when unknown.
func stored(v *float64, capacity float64) float64 {
	if v == nil {
		return capacity * defaultFillFraction
	}
	return *v
}

func truncate(v float64) int {
	return int(math.Floor(v))
}
