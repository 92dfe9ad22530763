package rangeest

import "github.com/kilianp07/energycore/core/model"

// UnitForVehicleType returns the unit energy consumption is logged in for t.
func UnitForVehicleType(t model.VehicleType) string {
	switch t {
	case model.VehicleEV:
		return "kWh"
	case model.VehiclePetrol, model.VehicleHybrid:
		return "liters"
	case model.VehicleCNG:
		return "kg"
	default:
		return unitUnknown
	}
}
