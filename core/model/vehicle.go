package model

import (
	"fmt"
	"math"
	"strings"
)

// VehicleType is the propulsion category of a vehicle. It selects the range
// formula used by the estimator.
type VehicleType string

const (
	VehicleEV     VehicleType = "ev"
	VehiclePetrol VehicleType = "petrol"
	VehicleHybrid VehicleType = "hybrid"
	VehicleCNG    VehicleType = "cng"
)

// ParseVehicleType normalises s to a known VehicleType. Unknown values are
// returned lower-cased as-is; they are valid input for the estimator, which
// maps them to its fallback result.
func ParseVehicleType(s string) VehicleType {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "ev", "electric":
		return VehicleEV
	case "petrol", "gasoline":
		return VehiclePetrol
	case "hybrid":
		return VehicleHybrid
	case "cng", "cnc":
		return VehicleCNG
	default:
		return VehicleType(v)
	}
}

// Known reports whether t is one of the supported vehicle types.
func (t VehicleType) Known() bool {
	switch t {
	case VehicleEV, VehiclePetrol, VehicleHybrid, VehicleCNG:
		return true
	default:
		return false
	}
}

// VehicleEnergyState captures what is known about a vehicle's stored energy.
// Nil fields are unknown and are replaced by per-type defaults.
type VehicleEnergyState struct {
	VehicleType     VehicleType `json:"vehicle_type"`
	FuelCapacity    *float64    `json:"fuel_capacity,omitempty"`    // liters or kg
	CurrentFuel     *float64    `json:"current_fuel,omitempty"`     // liters or kg
	BatteryCapacity *float64    `json:"battery_capacity,omitempty"` // kWh
	CurrentBattery  *float64    `json:"current_battery,omitempty"`  // kWh
	Efficiency      *float64    `json:"efficiency,omitempty"`       // km per unit
}

// Validate checks that every present numeric field is finite and non-negative.
func (s VehicleEnergyState) Validate() error {
	fields := []struct {
		name string
		v    *float64
	}{
		{"fuel_capacity", s.FuelCapacity},
		{"current_fuel", s.CurrentFuel},
		{"battery_capacity", s.BatteryCapacity},
		{"current_battery", s.CurrentBattery},
		{"efficiency", s.Efficiency},
	}
	for _, f := range fields {
		if f.v == nil {
			continue
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v < 0 {
			return fmt.Errorf("%w: %s=%v", ErrInvalidEnergyState, f.name, *f.v)
		}
	}
	return nil
}

// Float returns a pointer to v. It keeps optional fields terse in callers.
func Float(v float64) *float64 { return &v }

// OtherVehicleLabel stands in for every unsupported vehicle type in metrics.
const OtherVehicleLabel = "other"

// Label returns t as a bounded metric label. Unknown types collapse to
// OtherVehicleLabel.
func (t VehicleType) Label() string {
	if v := ParseVehicleType(string(t)); v.Known() {
		return string(v)
	}
	return OtherVehicleLabel
}
