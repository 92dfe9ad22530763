package model

import "errors"

// ErrInvalidEnergyState is returned when a vehicle energy field is present
// but negative or not a finite number.
var ErrInvalidEnergyState = errors.New("invalid energy state")

// ErrInvalidEnergyLog is returned when an energy log record violates its
// value constraints.
var ErrInvalidEnergyLog = errors.New("invalid energy log")

// ErrInvalidStationType is returned when a station type string is not recognised.
var ErrInvalidStationType = errors.New("invalid station type")

// ErrInvalidStation is returned when a station misses required fields.
var ErrInvalidStation = errors.New("invalid station")
