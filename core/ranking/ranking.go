// Package ranking orders stations by great-circle distance from a reference
// point.
package ranking

import (
	"fmt"
	"sort"

	"github.com/kilianp07/energycore/core/geo"
	"github.com/kilianp07/energycore/core/model"
)

// MaxResults caps the number of stations returned by a ranking call.
const MaxResults = 50

// RankedStation pairs a station with its distance from the reference point.
// DistanceKm is nil when no reference point was supplied.
type RankedStation struct {
	model.Station
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// RankStations filters stations by type (when filter is non-nil) and orders
// them by ascending distance from ref. Ties keep input order. Without a
// reference point the filtered stations are returned in input order. At most
// MaxResults stations are returned.
func RankStations(ref *geo.GeoPoint, stations []model.Station, filter *model.StationType) ([]model.Station, error) {
	ranked, err := RankWithDistance(ref, stations, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.Station, len(ranked))
	for i, r := range ranked {
		out[i] = r.Station
	}
	return out, nil
}

// RankWithDistance behaves like RankStations and also reports the computed
// distance of every returned station.
func RankWithDistance(ref *geo.GeoPoint, stations []model.Station, filter *model.StationType) ([]RankedStation, error) {
	if ref != nil {
		if err := ref.Validate(); err != nil {
			return nil, fmt.Errorf("reference point: %w", err)
		}
	}

	ranked := make([]RankedStation, 0, len(stations))
	for _, s := range stations {
		if filter != nil && s.Type != *filter {
			continue
		}
		rs := RankedStation{Station: s}
		if ref != nil {
			if err := s.Location.Validate(); err != nil {
				return nil, fmt.Errorf("station %s: %w", s.ID, err)
			}
			d := geo.Distance(*ref, s.Location)
			rs.DistanceKm = &d
		}
		ranked = append(ranked, rs)
	}

	if ref != nil {
		sort.SliceStable(ranked, func(i, j int) bool {
			return *ranked[i].DistanceKm < *ranked[j].DistanceKm
		})
	}
	if len(ranked) > MaxResults {
		ranked = ranked[:MaxResults]
	}
	return ranked, nil
}
