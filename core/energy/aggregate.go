// Package energy reduces energy log records into summary statistics.
package energy

import (
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/energycore/core/model"
)

// Summary holds totals over a set of energy log records.
type Summary struct {
	TotalEnergy       float64 `json:"total_energy"`
	TotalDistance     float64 `json:"total_distance"`
	TotalCost         float64 `json:"total_cost"`
	TotalCO2          float64 `json:"total_co2"`
	AverageEfficiency float64 `json:"average_efficiency"`
	LogCount          int     `json:"log_count"`
}

// AggregateEnergy sums the records it is given. Time-window filtering is the
// caller's job.
func AggregateEnergy(records []model.EnergyLogRecord) Summary {
	n := len(records)
	energy := make([]float64, n)
	distance := make([]float64, n)
	cost := make([]float64, n)
	co2 := make([]float64, n)
	for i, r := range records {
		energy[i] = r.EnergyConsumed
		distance[i] = r.DistanceTraveled
		cost[i] = r.Cost
		co2[i] = r.CO2Emissions
	}
	s := Summary{
		TotalEnergy:   floats.Sum(energy),
		TotalDistance: floats.Sum(distance),
		TotalCost:     floats.Sum(cost),
		TotalCO2:      floats.Sum(co2),
		LogCount:      n,
	}
	s.AverageEfficiency = model.DeriveEfficiency(s.TotalDistance, s.TotalEnergy)
	return s
}

// Merge combines two summaries of disjoint record sets. The average
// efficiency is recomputed from the merged totals.
func (s Summary) Merge(o Summary) Summary {
	m := Summary{
		TotalEnergy:   s.TotalEnergy + o.TotalEnergy,
		TotalDistance: s.TotalDistance + o.TotalDistance,
		TotalCost:     s.TotalCost + o.TotalCost,
		TotalCO2:      s.TotalCO2 + o.TotalCO2,
		LogCount:      s.LogCount + o.LogCount,
	}
	m.AverageEfficiency = model.DeriveEfficiency(m.TotalDistance, m.TotalEnergy)
	return m
}
