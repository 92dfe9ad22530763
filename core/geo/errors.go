package geo

import "errors"

// ErrInvalidCoordinate is returned when a latitude or longitude is non-finite
// or outside its valid range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")
