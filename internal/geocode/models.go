// Package geocode resolves postal addresses to coordinates and builds
// embeddable map URLs.
package geocode

import (
	"context"
	"errors"
)

// ErrAddressNotFound is returned when the geocoding service cannot resolve
// an address to a coordinate.
var ErrAddressNotFound = errors.New("address could not be resolved")

// Coordinate is a WGS84 position in floating-point degrees, owned
// transiently by one request.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Geocoder resolves a postal address string to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinate, error)
}
