package vehicles

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kilianp07/energycore/api/respond"
	"github.com/kilianp07/energycore/core/model"
	"github.com/kilianp07/energycore/core/rangeest"
)

// RangeEstimator is the subset of the engine used by the range endpoint.
type RangeEstimator interface {
	EstimateRange(state model.VehicleEnergyState) (rangeest.RangeResult, error)
}

// rangeRequest mirrors model.VehicleEnergyState with a free-form vehicle type.
type rangeRequest struct {
	VehicleType     string   `json:"vehicle_type"`
	FuelCapacity    *float64 `json:"fuel_capacity"`
	CurrentFuel     *float64 `json:"current_fuel"`
	BatteryCapacity *float64 `json:"battery_capacity"`
	CurrentBattery  *float64 `json:"current_battery"`
	Efficiency      *float64 `json:"efficiency"`
}

// NewRangeHandler serves POST /api/vehicle/remaining-range.
func NewRangeHandler(est RangeEstimator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Err(w, fmt.Errorf("%w: invalid JSON body", respond.ErrBadRequest))
			return
		}
		res, err := est.EstimateRange(model.VehicleEnergyState{
			VehicleType:     model.ParseVehicleType(req.VehicleType),
			FuelCapacity:    req.FuelCapacity,
			CurrentFuel:     req.CurrentFuel,
			BatteryCapacity: req.BatteryCapacity,
			CurrentBattery:  req.CurrentBattery,
			Efficiency:      req.Efficiency,
		})
		if err != nil {
			respond.Err(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, res)
	})
}

// NewUnitHandler serves GET /api/vehicle/unit?vehicle_type=. The type
// defaults to ev.
func NewUnitHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := r.URL.Query().Get("vehicle_type")
		if t == "" {
			t = string(model.VehicleEV)
		}
		vt := model.ParseVehicleType(t)
		respond.JSON(w, http.StatusOK, map[string]string{
			"vehicle_type": string(vt),
			"unit":         rangeest.UnitForVehicleType(vt),
		})
	})
}
