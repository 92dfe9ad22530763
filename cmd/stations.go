package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/energycore/core/geo"
	"github.com/kilianp07/energycore/core/model"
	"github.com/kilianp07/energycore/pkg/export"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List stations ranked by distance from a point",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		format, err := export.ParseFormat(mustString(cmd, "format"))
		if err != nil {
			return err
		}
		var ref *geo.GeoPoint
		if flags.Changed("lat") || flags.Changed("lon") {
			lat, _ := flags.GetFloat64("lat")
			lon, _ := flags.GetFloat64("lon")
			ref = &geo.GeoPoint{Latitude: lat, Longitude: lon}
		}
		var filter *model.StationType
		if t := mustString(cmd, "type"); t != "" {
			st, err := model.ParseStationType(t)
			if err != nil {
				return err
			}
			filter = &st
		}

		svc, closeFn, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()
		ranked, err := svc.Engine.NearbyStations(cmd.Context(), ref, filter)
		if err != nil {
			return err
		}
		if format == export.FormatCSV {
			return export.WriteStationsCSV(cmd.OutOrStdout(), ranked)
		}
		return export.WriteJSON(cmd.OutOrStdout(), ranked)
	},
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func init() {
	f := stationsCmd.Flags()
	f.Float64("lat", 0, "reference latitude")
	f.Float64("lon", 0, "reference longitude")
	f.StringP("type", "t", "", "station type filter")
	f.StringP("format", "f", string(export.FormatJSON), "output format (json, csv)")
	rootCmd.AddCommand(stationsCmd)
}
