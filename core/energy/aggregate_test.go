package energy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/energycore/core/model"
)

func rec(e, d, c, co2 float64) model.EnergyLogRecord {
	return model.EnergyLogRecord{EnergyConsumed: e, DistanceTraveled: d, Cost: c, CO2Emissions: co2}
}

func TestAggregateEnergy(t *testing.T) {
	s := AggregateEnergy([]model.EnergyLogRecord{
		rec(10, 150, 1000, 5),
		rec(5, 60, 500, 2),
	})
	assert.Equal(t, 15.0, s.TotalEnergy)
	assert.Equal(t, 210.0, s.TotalDistance)
	assert.Equal(t, 1500.0, s.TotalCost)
	assert.Equal(t, 7.0, s.TotalCO2)
	assert.Equal(t, 14.0, s.AverageEfficiency)
	assert.Equal(t, 2, s.LogCount)
}

func TestAggregateEnergyEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, AggregateEnergy(nil))
	assert.Equal(t, Summary{}, AggregateEnergy([]model.EnergyLogRecord{}))
}

func TestAggregateEnergyZeroEnergy(t *testing.T) {
	// records built outside NewEnergyLogRecord may carry zero energy
	s := AggregateEnergy([]model.EnergyLogRecord{rec(0, 40, 0, 0)})
	assert.Equal(t, 0.0, s.AverageEfficiency)
	assert.False(t, math.IsNaN(s.AverageEfficiency) || math.IsInf(s.AverageEfficiency, 0))
}

func TestAggregateEnergyAdditive(t *testing.T) {
	a := []model.EnergyLogRecord{rec(10, 150, 1000, 5), rec(3, 20, 90, 1)}
	b := []model.EnergyLogRecord{rec(5, 60, 500, 2), rec(8, 100, 640, 3.5), rec(1, 9, 12, 0.2)}

	sa := AggregateEnergy(a)
	sb := AggregateEnergy(b)
	all := AggregateEnergy(append(append([]model.EnergyLogRecord{}, a...), b...))

	assert.InDelta(t, sa.TotalEnergy+sb.TotalEnergy, all.TotalEnergy, 1e-9)
	assert.InDelta(t, sa.TotalDistance+sb.TotalDistance, all.TotalDistance, 1e-9)
	assert.InDelta(t, sa.TotalCost+sb.TotalCost, all.TotalCost, 1e-9)
	assert.InDelta(t, sa.TotalCO2+sb.TotalCO2, all.TotalCO2, 1e-9)
	assert.Equal(t, sa.LogCount+sb.LogCount, all.LogCount)
	assert.InDelta(t, all.TotalDistance/all.TotalEnergy, all.AverageEfficiency, 1e-9)

	merged := sa.Merge(sb)
	assert.InDelta(t, all.AverageEfficiency, merged.AverageEfficiency, 1e-9)
	assert.Equal(t, all.LogCount, merged.LogCount)
}

func TestWindow(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), NewWindow(0).Since(now))
	assert.Equal(t, time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC), NewWindow(7).Since(now))
	assert.Equal(t, now.Add(-30*24*time.Hour), Window{}.Since(now))
}
