package dashboard

import (
	"context"

	"weather-dashboard/internal/api"
	"weather-dashboard/internal/weather"
)

// RemoteService is the contract the core depends on for all weather,
// auth, and persistence operations. *api.Client satisfies it; tests
// substitute scripted fakes.
type RemoteService interface {
	Login(ctx context.Context, email string) (api.LoginResult, error)
	DefaultForecast(ctx context.Context) (weather.ForecastPayload, error)
	CoordForecast(ctx context.Context, lat, lon float64) (weather.ForecastPayload, error)
	CoordHourly(ctx context.Context, lat, lon float64) (weather.HourlyPayload, error)
	SearchLocation(ctx context.Context, query string) (weather.Candidate, error)
	ListLocations(ctx context.Context, email string) ([]weather.SavedLocation, error)
	SaveLocation(ctx context.Context, email string, cand weather.Candidate, customName string) (weather.SavedLocation, string, error)
	RemoveLocation(ctx context.Context, email, locationID string) (string, error)
	MonthlyHistory(ctx context.Context, email, locationID string, year, month int) (weather.HistoryPayload, error)
}

// Confirmer asks the user to approve a destructive action. Remove flows
// proceed only when Confirm returns true.
type Confirmer interface {
	Confirm(message string) bool
}

// Notification levels passed to Presenter.Notify.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

// Presenter receives state changes for rendering. Implementations are
// pure sinks: they must not call back into the core.
type Presenter interface {
	// ShowForecast renders a freshly accepted forecast payload for the
	// given view with the given selected day.
	ShowForecast(view View, payload weather.ForecastPayload, dayIndex int)

	// ShowDay re-renders the highlighted day without a refetch.
	ShowDay(payload weather.ForecastPayload, dayIndex int)

	// ShowHistory renders one month of history with its aggregates.
	ShowHistory(loc weather.SavedLocation, payload weather.HistoryPayload, stats weather.MonthStats)

	// ShowLocations renders the saved-location list and selection.
	ShowLocations(locations []weather.SavedLocation, selectedID string)

	// Notify surfaces a transient user-facing message.
	Notify(level, message string)
}
