package dashboard

import (
	"context"
	"errors"
	"testing"

	"weather-dashboard/internal/api"
	"weather-dashboard/internal/weather"
)

func TestSwitchToResetsHighlightedDay(t *testing.T) {
	app, remote, presenter, _, _ := newTestApp()
	ctx := context.Background()

	if err := app.Selection.Refresh(ctx); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	if err := app.Selection.SelectDay(3); err != nil {
		t.Fatalf("select day 3: %v", err)
	}

	if err := app.Selection.SwitchTo(ctx, View{Kind: ViewDevice}); err != nil {
		t.Fatalf("switch to device: %v", err)
	}

	view, dayIndex := app.Selection.Current()
	if view.Kind != ViewDevice {
		t.Fatalf("view = %s, want device", view.Kind)
	}
	if dayIndex != 0 {
		t.Fatalf("day index = %d after switch, want 0", dayIndex)
	}
	if remote.count("coord") != 1 {
		t.Fatalf("coord fetches = %d, want 1", remote.count("coord"))
	}
	if last, ok := presenter.lastForecast(); !ok || last.name != "Current Location" {
		t.Fatalf("last rendered forecast = %+v, want Current Location", last)
	}
}

func TestSelectDayRejectsOutOfRange(t *testing.T) {
	app, remote, presenter, _, _ := newTestApp()
	ctx := context.Background()

	if err := app.Selection.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	fetches := len(remote.calls)

	for _, i := range []int{-1, 7, 100} {
		if err := app.Selection.SelectDay(i); !errors.Is(err, ErrInvalidDayIndex) {
			t.Fatalf("SelectDay(%d) = %v, want ErrInvalidDayIndex", i, err)
		}
	}
	if _, dayIndex := app.Selection.Current(); dayIndex != 0 {
		t.Fatalf("day index moved to %d on rejected selections", dayIndex)
	}

	if err := app.Selection.SelectDay(6); err != nil {
		t.Fatalf("SelectDay(6): %v", err)
	}
	if len(presenter.dayShows) != 1 || presenter.dayShows[0] != 6 {
		t.Fatalf("ShowDay calls = %v, want [6]", presenter.dayShows)
	}
	// Day selection renders already-fetched data only.
	if len(remote.calls) != fetches {
		t.Fatalf("SelectDay issued network calls: %v", remote.calls[fetches:])
	}
}

func TestSelectDayWithoutPayload(t *testing.T) {
	app, _, _, _, _ := newTestApp()
	if err := app.Selection.SelectDay(0); !errors.Is(err, ErrInvalidDayIndex) {
		t.Fatalf("SelectDay before any fetch = %v, want ErrInvalidDayIndex", err)
	}
}

// A fetch that completes after a newer view switch must never be
// rendered: the newer view's payload wins regardless of arrival order.
func TestStaleFetchDiscarded(t *testing.T) {
	app, remote, presenter, _, _ := newTestApp()
	ctx := context.Background()

	remote.coordFn = func(lat, lon float64) (weather.ForecastPayload, error) {
		// A newer switch lands while this fetch is still in flight.
		if err := app.Selection.SwitchTo(ctx, View{Kind: ViewDefault}); err != nil {
			t.Fatalf("nested switch: %v", err)
		}
		return forecastNamed("Device Place", 7), nil
	}

	if err := app.Selection.SwitchTo(ctx, View{Kind: ViewDevice}); err != nil {
		t.Fatalf("switch to device: %v", err)
	}

	payload, ok := app.Selection.Payload()
	if !ok || payload.Location.Name != "New York City" {
		t.Fatalf("payload = %q, want the newer view's data", payload.Location.Name)
	}
	last, _ := presenter.lastForecast()
	if last.name != "New York City" {
		t.Fatalf("last render = %q; stale device payload leaked through", last.name)
	}
	for _, f := range presenter.forecasts {
		if f.name == "Device Place" {
			t.Fatalf("superseded payload was rendered: %+v", presenter.forecasts)
		}
	}
}

// A superseded fetch that fails late must stay silent too: its error
// belongs to a view the user already left.
func TestStaleFetchFailureNotSurfaced(t *testing.T) {
	app, remote, presenter, _, _ := newTestApp()
	ctx := context.Background()

	remote.coordFn = func(lat, lon float64) (weather.ForecastPayload, error) {
		if err := app.Selection.SwitchTo(ctx, View{Kind: ViewDefault}); err != nil {
			t.Fatalf("nested switch: %v", err)
		}
		return weather.ForecastPayload{}, api.ErrServiceUnavailable
	}

	if err := app.Selection.SwitchTo(ctx, View{Kind: ViewDevice}); err != nil {
		t.Fatalf("superseded switch reported an error: %v", err)
	}

	if last, ok := presenter.lastNotice(); ok && last.level == LevelError {
		t.Fatalf("stale failure surfaced to the user: %+v", last)
	}
	payload, ok := app.Selection.Payload()
	if !ok || payload.Location.Name != "New York City" {
		t.Fatalf("payload = %q, want the newer view's data", payload.Location.Name)
	}
}

// A refresh may legitimately return fewer days than the highlighted
// index; the selection clamps to the last available day.
func TestRefreshClampsDayIndexToShorterPayload(t *testing.T) {
	app, remote, presenter, _, _ := newTestApp()
	ctx := context.Background()

	if err := app.Selection.Refresh(ctx); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	if err := app.Selection.SelectDay(6); err != nil {
		t.Fatalf("select day 6: %v", err)
	}

	remote.defaultFn = func() (weather.ForecastPayload, error) {
		return forecastNamed("New York City", 3), nil
	}
	if err := app.Selection.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if _, dayIndex := app.Selection.Current(); dayIndex != 2 {
		t.Fatalf("day index = %d after 3-day refresh, want clamped to 2", dayIndex)
	}
	if last, _ := presenter.lastForecast(); last.dayIndex != 2 {
		t.Fatalf("rendered day index = %d, want 2", last.dayIndex)
	}
	if err := app.Selection.SelectDay(2); err != nil {
		t.Fatalf("select clamped day: %v", err)
	}
}

func TestSwitchToUnknownSavedID(t *testing.T) {
	app, _, _, _, _ := newTestApp()
	err := app.Selection.SwitchTo(context.Background(), View{Kind: ViewSaved, SavedID: "ghost"})
	if !errors.Is(err, ErrUnknownLocation) {
		t.Fatalf("switch to unknown id = %v, want ErrUnknownLocation", err)
	}
}

func TestDeviceGeolocationDenied(t *testing.T) {
	app, _, presenter, geo, _ := newTestApp()
	ctx := context.Background()

	if err := app.Selection.Refresh(ctx); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	before, _ := app.Selection.Payload()

	geo.fn = func(context.Context) (Coordinates, error) {
		return Coordinates{}, &GeolocationError{Code: GeoPermissionDenied}
	}

	err := app.Selection.SwitchTo(ctx, View{Kind: ViewDevice})
	var geoErr *GeolocationError
	if !errors.As(err, &geoErr) {
		t.Fatalf("switch error = %v, want GeolocationError", err)
	}

	last, ok := presenter.lastNotice()
	if !ok || last.level != LevelError {
		t.Fatalf("last notice = %+v, want an error notice", last)
	}
	if want := "Location access denied. Please allow location access and try again."; last.message != want {
		t.Fatalf("notice = %q, want %q", last.message, want)
	}

	// The previous payload stays on screen.
	after, ok := app.Selection.Payload()
	if !ok || after.Location.Name != before.Location.Name {
		t.Fatalf("payload changed on failed fetch: %q -> %q", before.Location.Name, after.Location.Name)
	}
}

func TestGeolocationMessages(t *testing.T) {
	cases := []struct {
		code GeoErrorCode
		want string
	}{
		{GeoPermissionDenied, "Location access denied. Please allow location access and try again."},
		{GeoPositionUnavailable, "Location unavailable. Please check your connection and try again."},
		{GeoTimeout, "Location request timed out. Please try again."},
		{GeoUnsupported, "Geolocation is not supported on this device."},
		{GeoErrorCode(99), "Failed to get your location. Please try again."},
	}
	for _, tc := range cases {
		err := &GeolocationError{Code: tc.code}
		if got := err.UserMessage(); got != tc.want {
			t.Errorf("code %d: message = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestRefreshIsNoopInHistory(t *testing.T) {
	app, remote, _, _, _ := newTestApp()
	app.Selection.enterHistory("loc-1")

	before := len(remote.calls)
	if err := app.Selection.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh in history: %v", err)
	}
	if len(remote.calls) != before {
		t.Fatalf("refresh in history issued calls: %v", remote.calls[before:])
	}
}

func TestSavedViewUsesStoredDisplayName(t *testing.T) {
	app, remote, presenter, _, _ := newTestApp()
	ctx := context.Background()

	seedSaved(app, remote, weather.SavedLocation{
		ID: "loc-1", Name: "Home", Latitude: 51.5, Longitude: -0.12,
	})
	remote.coordFn = func(lat, lon float64) (weather.ForecastPayload, error) {
		p := forecastNamed("London", 7)
		p.Location.Region = "England"
		p.Location.Country = "United Kingdom"
		return p, nil
	}

	if err := app.Selection.SwitchTo(ctx, View{Kind: ViewSaved, SavedID: "loc-1"}); err != nil {
		t.Fatalf("switch to saved: %v", err)
	}

	payload, _ := app.Selection.Payload()
	if payload.Location.Name != "Home" {
		t.Fatalf("name = %q, want stored display name %q", payload.Location.Name, "Home")
	}
	if payload.Location.Region != "" || payload.Location.Country != "" {
		t.Fatalf("region/country not blanked: %+v", payload.Location)
	}
	if last, _ := presenter.lastForecast(); last.view.SavedID != "loc-1" {
		t.Fatalf("rendered view = %+v, want saved loc-1", last.view)
	}
}
