package model

import (
	"fmt"
	"math"
	"time"
)

// EnergyLogRecord is one refuel/recharge consumption entry for a vehicle.
type EnergyLogRecord struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id,omitempty"`
	VehicleID        string    `json:"vehicle_id"`
	EnergyConsumed   float64   `json:"energy_consumed"`   // liters, kg or kWh
	DistanceTraveled float64   `json:"distance_traveled"` // km
	Cost             float64   `json:"cost"`
	CO2Emissions     float64   `json:"co2_emissions"` // kg
	Efficiency       float64   `json:"efficiency"`    // km per unit, derived
	Timestamp        time.Time `json:"date"`
	Notes            string    `json:"notes,omitempty"`
}

// NewEnergyLogRecord validates the raw values and derives Efficiency.
// A zero timestamp is replaced with the current UTC time.
func NewEnergyLogRecord(r EnergyLogRecord) (EnergyLogRecord, error) {
	if err := r.validate(); err != nil {
		return EnergyLogRecord{}, err
	}
	r.Efficiency = DeriveEfficiency(r.DistanceTraveled, r.EnergyConsumed)
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	return r, nil
}

// DeriveEfficiency returns distance/energy, or 0 when energy is not positive.
func DeriveEfficiency(distance, energy float64) float64 {
	if energy > 0 {
		return distance / energy
	}
	return 0
}

func (r EnergyLogRecord) validate() error {
	if bad(r.EnergyConsumed) || r.EnergyConsumed <= 0 {
		return fmt.Errorf("%w: energy_consumed must be positive, got %v", ErrInvalidEnergyLog, r.EnergyConsumed)
	}
	checks := []struct {
		name string
		v    float64
	}{
		{"distance_traveled", r.DistanceTraveled},
		{"cost", r.Cost},
		{"co2_emissions", r.CO2Emissions},
	}
	for _, c := range checks {
		if bad(c.v) || c.v < 0 {
			return fmt.Errorf("%w: %s must be non-negative, got %v", ErrInvalidEnergyLog, c.name, c.v)
		}
	}
	return nil
}

func bad(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
