package dashboard

import (
	"context"
	"sync"

	"weather-dashboard/internal/weather"
)

// ViewKind enumerates the dashboard's mutually exclusive views.
type ViewKind int

const (
	// ViewDefault is the fixed default location (New York City).
	ViewDefault ViewKind = iota
	// ViewDevice is the device-geolocated location.
	ViewDevice
	// ViewSaved is one saved location, addressed by stable id.
	ViewSaved
	// ViewHistory is the monthly-history sub-mode of a saved location.
	// It is entered and left through the HistoryNavigator only.
	ViewHistory
)

func (k ViewKind) String() string {
	switch k {
	case ViewDefault:
		return "default"
	case ViewDevice:
		return "device"
	case ViewSaved:
		return "saved"
	case ViewHistory:
		return "history"
	default:
		return "unknown"
	}
}

// View identifies the active dashboard view. SavedID is set for
// ViewSaved and ViewHistory.
type View struct {
	Kind    ViewKind
	SavedID string
}

// Selection owns which single view is active, the fetched forecast
// payload, and the highlighted forecast day. Exactly one view is active
// at any time.
//
// Every fetch is tagged with a monotonically increasing token; a
// response is applied only while its token is still the latest issued,
// so a reply that arrives after a newer request was started is dropped
// and never rendered.
type Selection struct {
	mu        sync.Mutex
	remote    RemoteService
	geo       Geolocator
	presenter Presenter
	locations *LocationStore

	view         View
	payload      *weather.ForecastPayload
	dayIndex     int
	token        uint64
	deviceCoords *Coordinates
}

func newSelection(remote RemoteService, geo Geolocator, presenter Presenter) *Selection {
	return &Selection{
		remote:    remote,
		geo:       geo,
		presenter: presenter,
	}
}

// Current returns the active view and the highlighted day index.
func (s *Selection) Current() (View, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view, s.dayIndex
}

// Payload returns a copy of the last accepted forecast payload.
func (s *Selection) Payload() (weather.ForecastPayload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return weather.ForecastPayload{}, false
	}
	return *s.payload, true
}

// DeviceCoords returns the last resolved device position, if any.
func (s *Selection) DeviceCoords() (Coordinates, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deviceCoords == nil {
		return Coordinates{}, false
	}
	return *s.deviceCoords, true
}

// SwitchTo activates a view and fetches its forecast. The highlighted
// day resets to 0 on every transition. Any fetch still in flight for
// the previous view is superseded. History is not reachable this way;
// use the HistoryNavigator.
func (s *Selection) SwitchTo(ctx context.Context, view View) error {
	if view.Kind == ViewHistory {
		return ErrHistoryUnavailable
	}
	if view.Kind == ViewSaved {
		if _, ok := s.locations.ByID(view.SavedID); !ok {
			return ErrUnknownLocation
		}
	}

	s.mu.Lock()
	s.view = view
	s.dayIndex = 0
	s.mu.Unlock()

	return s.fetch(ctx)
}

// Refresh re-issues the fetch for the active view without changing
// state. In history mode this is a no-op; month loads are owned by the
// HistoryNavigator.
func (s *Selection) Refresh(ctx context.Context) error {
	s.mu.Lock()
	kind := s.view.Kind
	s.mu.Unlock()
	if kind == ViewHistory {
		return nil
	}
	return s.fetch(ctx)
}

// SelectDay highlights a forecast day. It operates on already-fetched
// data only and rejects indices outside [0, len(days)).
func (s *Selection) SelectDay(i int) error {
	s.mu.Lock()
	if s.payload == nil || i < 0 || i >= len(s.payload.Forecast) {
		s.mu.Unlock()
		return ErrInvalidDayIndex
	}
	s.dayIndex = i
	payload := *s.payload
	s.mu.Unlock()

	s.presenter.ShowDay(payload, i)
	return nil
}

func (s *Selection) fetch(ctx context.Context) error {
	s.mu.Lock()
	s.token++
	token := s.token
	view := s.view
	s.mu.Unlock()

	payload, err := s.load(ctx, view)
	if err != nil {
		s.mu.Lock()
		superseded := token != s.token || s.view != view
		s.mu.Unlock()
		if superseded {
			// A newer request already owns the screen; its outcome is
			// the one that matters, so this failure is not surfaced.
			return nil
		}
		s.presenter.Notify(LevelError, fetchMessage(err))
		return err
	}

	s.mu.Lock()
	if token != s.token || s.view != view {
		// Superseded while in flight; drop the stale payload.
		s.mu.Unlock()
		return nil
	}
	if s.dayIndex >= len(payload.Forecast) {
		if len(payload.Forecast) > 0 {
			s.dayIndex = len(payload.Forecast) - 1
		} else {
			s.dayIndex = 0
		}
	}
	s.payload = &payload
	dayIndex := s.dayIndex
	s.mu.Unlock()

	s.presenter.ShowForecast(view, payload, dayIndex)
	return nil
}

func (s *Selection) load(ctx context.Context, view View) (weather.ForecastPayload, error) {
	switch view.Kind {
	case ViewDevice:
		coords, err := s.geo.CurrentPosition(ctx)
		if err != nil {
			return weather.ForecastPayload{}, err
		}
		s.mu.Lock()
		s.deviceCoords = &coords
		s.mu.Unlock()
		return s.remote.CoordForecast(ctx, coords.Latitude, coords.Longitude)

	case ViewSaved:
		loc, ok := s.locations.ByID(view.SavedID)
		if !ok {
			return weather.ForecastPayload{}, ErrUnknownLocation
		}
		payload, err := s.remote.CoordForecast(ctx, loc.Latitude, loc.Longitude)
		if err != nil {
			return weather.ForecastPayload{}, err
		}
		// The saved display name wins over whatever the service
		// resolved for the coordinates.
		name := loc.Name
		if name == "" {
			name = weather.FormatCoords(loc.Latitude, loc.Longitude)
		}
		payload.Location.Name = name
		payload.Location.Region = ""
		payload.Location.Country = ""
		return payload, nil

	default:
		return s.remote.DefaultForecast(ctx)
	}
}

// enterHistory flips the view into history mode for the given saved id.
// Bumping the token discards any forecast fetch still in flight.
func (s *Selection) enterHistory(savedID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = View{Kind: ViewHistory, SavedID: savedID}
	s.dayIndex = 0
	s.token++
}

// exitHistory restores the saved-location view history was entered from
// and re-fetches it.
func (s *Selection) exitHistory(ctx context.Context, savedID string) error {
	s.mu.Lock()
	s.view = View{Kind: ViewSaved, SavedID: savedID}
	s.dayIndex = 0
	s.mu.Unlock()

	// The saved location may have been removed while in history mode;
	// fall back to the device view rather than fetching a ghost.
	if _, ok := s.locations.ByID(savedID); !ok {
		return s.SwitchTo(ctx, View{Kind: ViewDevice})
	}
	return s.fetch(ctx)
}

// reset returns the selection to the Default view without fetching.
// Used by logout, which must not leave partially reset state observable.
func (s *Selection) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = View{Kind: ViewDefault}
	s.dayIndex = 0
	s.payload = nil
	s.deviceCoords = nil
	s.token++
}
