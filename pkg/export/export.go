// Package export writes ranked stations and energy logs as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/energycore/core/model"
	"github.com/kilianp07/energycore/core/ranking"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteStationsCSV writes ranked stations to w in CSV format. The distance
// column is empty for unranked results.
func WriteStationsCSV(w io.Writer, stations []ranking.RankedStation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "station_type", "latitude", "longitude", "distance_km", "price_per_unit", "address"}); err != nil {
		return err
	}
	for _, s := range stations {
		rec := []string{
			s.ID,
			s.Name,
			string(s.Type),
			formatFloat(s.Location.Latitude),
			formatFloat(s.Location.Longitude),
			optFloat(s.DistanceKm),
			optFloat(s.PricePerUnit),
			s.Address,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEnergyLogsCSV writes energy logs to w in CSV format.
func WriteEnergyLogsCSV(w io.Writer, logs []model.EnergyLogRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "vehicle_id", "date", "energy_consumed", "distance_traveled", "cost", "co2_emissions", "efficiency"}); err != nil {
		return err
	}
	for _, l := range logs {
		rec := []string{
			l.ID,
			l.VehicleID,
			l.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(l.EnergyConsumed),
			formatFloat(l.DistanceTraveled),
			formatFloat(l.Cost),
			formatFloat(l.CO2Emissions),
			formatFloat(l.Efficiency),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
