package dashboard

import (
	"context"
	"fmt"
)

// Coordinates is a resolved device position. It is ephemeral and never
// persisted.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geolocator resolves the device's current position. Implementations
// block until a position is available, the context expires, or the
// platform reports a failure.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Coordinates, error)
}

// GeoErrorCode classifies geolocation failures. The numeric values
// follow the W3C geolocation error codes.
type GeoErrorCode int

const (
	GeoPermissionDenied    GeoErrorCode = 1
	GeoPositionUnavailable GeoErrorCode = 2
	GeoTimeout             GeoErrorCode = 3

	// GeoUnsupported means no geolocation capability is present at all.
	GeoUnsupported GeoErrorCode = 4
)

// GeolocationError is a classified device-location failure.
type GeolocationError struct {
	Code GeoErrorCode
	Err  error
}

func (e *GeolocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geolocation failed (code %d): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("geolocation failed (code %d)", e.Code)
}

func (e *GeolocationError) Unwrap() error {
	return e.Err
}

// UserMessage returns the user-facing text for this failure. Each known
// code has a distinct message; anything else collapses to a generic
// retry message.
func (e *GeolocationError) UserMessage() string {
	switch e.Code {
	case GeoPermissionDenied:
		return "Location access denied. Please allow location access and try again."
	case GeoPositionUnavailable:
		return "Location unavailable. Please check your connection and try again."
	case GeoTimeout:
		return "Location request timed out. Please try again."
	case GeoUnsupported:
		return "Geolocation is not supported on this device."
	default:
		return "Failed to get your location. Please try again."
	}
}
