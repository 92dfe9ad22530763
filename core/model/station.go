package model

import (
	"fmt"
	"strings"

	"github.com/kilianp07/energycore/core/geo"
)

// StationType identifies what a station dispenses.
type StationType string

const (
	StationPetrol     StationType = "Petrol"
	StationEVCharging StationType = "EV_Charging"
	StationHybrid     StationType = "Hybrid"
	StationCNG        StationType = "CNG"
)

// ParseStationType accepts the canonical names case-insensitively, plus a few
// spellings found in stored data ("EVCharging", "CNC").
func ParseStationType(s string) (StationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "petrol":
		return StationPetrol, nil
	case "ev_charging", "evcharging", "ev":
		return StationEVCharging, nil
	case "hybrid":
		return StationHybrid, nil
	case "cng", "cnc":
		return StationCNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStationType, s)
	}
}

// Station is a fuel or charging location.
type Station struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Location     geo.GeoPoint `json:"location"`
	Type         StationType  `json:"station_type"`
	PricePerUnit *float64     `json:"price_per_unit,omitempty"`
	Address      string       `json:"address,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	Rating       float64      `json:"rating"`
	Open24x7     bool         `json:"open_24_7"`
}

// Validate checks the fields a ranking call relies on.
func (s Station) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStation)
	}
	if _, err := ParseStationType(string(s.Type)); err != nil {
		return err
	}
	if err := s.Location.Validate(); err != nil {
		return fmt.Errorf("station %q: %w", s.Name, err)
	}
	return nil
}
