package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/energycore/core/model"
	"github.com/kilianp07/energycore/core/rangeest"
	"github.com/kilianp07/energycore/pkg/export"
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Estimate remaining range for a vehicle energy state",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		vt, _ := flags.GetString("type")
		state := model.VehicleEnergyState{VehicleType: model.ParseVehicleType(vt)}
		optional := map[string]**float64{
			"fuel-capacity":    &state.FuelCapacity,
			"current-fuel":     &state.CurrentFuel,
			"battery-capacity": &state.BatteryCapacity,
			"current-battery":  &state.CurrentBattery,
			"efficiency":       &state.Efficiency,
		}
		for name, dst := range optional {
			if !flags.Changed(name) {
				continue
			}
			v, err := flags.GetFloat64(name)
			if err != nil {
				return err
			}
			*dst = model.Float(v)
		}
		res, err := rangeest.EstimateRange(state)
		if err != nil {
			return err
		}
		return export.WriteJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	f := rangeCmd.Flags()
	f.StringP("type", "t", string(model.VehicleEV), "vehicle type (ev, petrol, hybrid, cng)")
	f.Float64("fuel-capacity", 0, "fuel tank capacity")
	f.Float64("current-fuel", 0, "fuel currently stored")
	f.Float64("battery-capacity", 0, "battery capacity in kWh")
	f.Float64("current-battery", 0, "battery charge in kWh")
	f.Float64("efficiency", 0, "km per unit of energy")
	rootCmd.AddCommand(rangeCmd)
}
