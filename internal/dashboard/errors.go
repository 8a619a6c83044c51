package dashboard

import (
	"errors"

	"weather-dashboard/internal/api"
)

var (
	// ErrMalformedIdentifier is returned by Login before any network
	// call when the identifier fails the local sanity check.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrNotAuthenticated guards operations that require a principal.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoPendingCandidate is returned when a save is confirmed with
	// no candidate awaiting confirmation.
	ErrNoPendingCandidate = errors.New("no pending location candidate")

	// ErrLocationNotConfirmed is returned when a just-saved location
	// cannot be matched in the reloaded list after bounded retries.
	ErrLocationNotConfirmed = errors.New("saved location not found after reload")

	// ErrUnknownLocation is returned when a stable id does not resolve
	// against the current saved-location list.
	ErrUnknownLocation = errors.New("unknown saved location")

	// ErrInvalidDayIndex rejects day selections outside the current
	// forecast range.
	ErrInvalidDayIndex = errors.New("day index out of range")

	// ErrFutureDateRejected is reported when history navigation would
	// move past the current calendar month. The cursor is unchanged.
	ErrFutureDateRejected = errors.New("cannot view future weather data")

	// ErrHistoryUnavailable is returned when history mode is requested
	// for anything other than an authenticated user's saved location.
	ErrHistoryUnavailable = errors.New("weather history is only available for saved locations")

	// ErrNotInHistory guards navigation calls outside history mode.
	ErrNotInHistory = errors.New("not in history mode")
)

// User-facing messages for failure paths that do not carry a
// server-provided text.
const (
	msgServiceUnavailable = "Weather service unavailable. Please try again later."
	msgLoadFailed         = "Failed to load weather data. Please try again."
	msgLoginTransport     = "Login failed. Please check your connection and try again."
	msgInvalidEmail       = "Please enter a valid email address"
	msgHistoryLoadFailed  = "Failed to load weather history. Please try again."
)

// fetchMessage maps a fetch error to the message shown to the user.
// Server-provided business messages pass through verbatim; transport
// failures collapse to the service-unavailable text.
func fetchMessage(err error) string {
	var serverErr *api.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	var geoErr *GeolocationError
	if errors.As(err, &geoErr) {
		return geoErr.UserMessage()
	}
	if errors.Is(err, api.ErrServiceUnavailable) {
		return msgServiceUnavailable
	}
	return msgLoadFailed
}
