package engine

import (
	"github.com/kilianp07/energycore/core/geo"
	"github.com/kilianp07/energycore/core/model"
)

// SampleStations returns the demo stations used to bootstrap an empty store.
func SampleStations() []model.Station {
	return []model.Station{
		{
			Name:         "Shell Petrol Station",
			Location:     geo.GeoPoint{Latitude: 28.7041, Longitude: 77.1025},
			Type:         model.StationPetrol,
			Address:      "Delhi",
			PricePerUnit: model.Float(95),
		},
		{
			Name:         "EV Charging Hub",
			Location:     geo.GeoPoint{Latitude: 28.5355, Longitude: 77.3910},
			Type:         model.StationEVCharging,
			Address:      "Gurgaon",
			PricePerUnit: model.Float(12),
		},
		{
			Name:         "Hybrid Station",
			Location:     geo.GeoPoint{Latitude: 28.6139, Longitude: 77.2090},
			Type:         model.StationHybrid,
			Address:      "New Delhi",
			PricePerUnit: model.Float(85),
		},
	}
}
