package dashboard

import (
	"context"
	"fmt"
	"sync"

	"weather-dashboard/internal/api"
	"weather-dashboard/internal/weather"
)

// fakeRemote is a scripted RemoteService. Unset function fields fall
// back to benign defaults; Calls records every operation name in order.
type fakeRemote struct {
	mu    sync.Mutex
	calls []string

	loginFn   func(email string) (api.LoginResult, error)
	defaultFn func() (weather.ForecastPayload, error)
	coordFn   func(lat, lon float64) (weather.ForecastPayload, error)
	searchFn  func(query string) (weather.Candidate, error)
	listFn    func(email string) ([]weather.SavedLocation, error)
	saveFn    func(email string, cand weather.Candidate, customName string) (weather.SavedLocation, string, error)
	removeFn  func(email, id string) (string, error)
	historyFn func(email, id string, year, month int) (weather.HistoryPayload, error)
}

func (f *fakeRemote) record(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
}

func (f *fakeRemote) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeRemote) Login(_ context.Context, email string) (api.LoginResult, error) {
	f.record("login")
	if f.loginFn != nil {
		return f.loginFn(email)
	}
	return api.LoginResult{Email: email, UserID: 1, UserStatus: "existing", Message: "Welcome back!"}, nil
}

func (f *fakeRemote) DefaultForecast(context.Context) (weather.ForecastPayload, error) {
	f.record("default")
	if f.defaultFn != nil {
		return f.defaultFn()
	}
	return forecastNamed("New York City", 7), nil
}

func (f *fakeRemote) CoordForecast(_ context.Context, lat, lon float64) (weather.ForecastPayload, error) {
	f.record("coord")
	if f.coordFn != nil {
		return f.coordFn(lat, lon)
	}
	return forecastNamed("Current Location", 7), nil
}

func (f *fakeRemote) CoordHourly(_ context.Context, lat, lon float64) (weather.HourlyPayload, error) {
	f.record("hourly")
	return weather.HourlyPayload{}, nil
}

func (f *fakeRemote) SearchLocation(_ context.Context, query string) (weather.Candidate, error) {
	f.record("search")
	if f.searchFn != nil {
		return f.searchFn(query)
	}
	return weather.Candidate{Name: query}, nil
}

func (f *fakeRemote) ListLocations(_ context.Context, email string) ([]weather.SavedLocation, error) {
	f.record("list")
	if f.listFn != nil {
		return f.listFn(email)
	}
	return nil, nil
}

func (f *fakeRemote) SaveLocation(_ context.Context, email string, cand weather.Candidate, customName string) (weather.SavedLocation, string, error) {
	f.record("save")
	if f.saveFn != nil {
		return f.saveFn(email, cand, customName)
	}
	return weather.SavedLocation{ID: "echo", Name: cand.Name}, "Added " + cand.Name + " to your saved locations", nil
}

func (f *fakeRemote) RemoveLocation(_ context.Context, email, id string) (string, error) {
	f.record("remove")
	if f.removeFn != nil {
		return f.removeFn(email, id)
	}
	return "Removed location", nil
}

func (f *fakeRemote) MonthlyHistory(_ context.Context, email, id string, year, month int) (weather.HistoryPayload, error) {
	f.record("history")
	if f.historyFn != nil {
		return f.historyFn(email, id, year, month)
	}
	return historyFor(year, month), nil
}

func serverErr(message string) error {
	return &api.ServerError{Message: message}
}

func forecastNamed(name string, days int) weather.ForecastPayload {
	p := weather.ForecastPayload{
		Location: weather.LocationInfo{Name: name},
	}
	for i := 0; i < days; i++ {
		p.Forecast = append(p.Forecast, weather.DailySummary{
			Date:     fmt.Sprintf("2026-08-%02d", i+1),
			MaxTempF: 80 + float64(i),
			MinTempF: 60 + float64(i),
		})
	}
	return p
}

func historyFor(year, month int) weather.HistoryPayload {
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	end := fmt.Sprintf("%04d-%02d-15", year, month)
	return weather.HistoryPayload{
		Days: []weather.HistoryDay{
			{Date: start, MaxTempF: 70, MinTempF: 50, Precipitation: 1.5},
			{Date: end, MaxTempF: 74, MinTempF: 54, Precipitation: 0.5},
		},
		Period: weather.HistoryPeriod{StartDate: start, EndDate: end, TotalDays: 2},
	}
}

type notice struct {
	level   string
	message string
}

type shownForecast struct {
	view     View
	name     string
	dayIndex int
}

// fakePresenter records everything the core renders.
type fakePresenter struct {
	mu        sync.Mutex
	notices   []notice
	forecasts []shownForecast
	dayShows  []int
	histories []string // period start dates, in render order
	locations [][]weather.SavedLocation
	selected  []string
}

func (p *fakePresenter) ShowForecast(view View, payload weather.ForecastPayload, dayIndex int) {
	p.mu.Lock()
	p.forecasts = append(p.forecasts, shownForecast{view: view, name: payload.Location.Name, dayIndex: dayIndex})
	p.mu.Unlock()
}

func (p *fakePresenter) ShowDay(_ weather.ForecastPayload, dayIndex int) {
	p.mu.Lock()
	p.dayShows = append(p.dayShows, dayIndex)
	p.mu.Unlock()
}

func (p *fakePresenter) ShowHistory(_ weather.SavedLocation, payload weather.HistoryPayload, _ weather.MonthStats) {
	p.mu.Lock()
	p.histories = append(p.histories, payload.Period.StartDate)
	p.mu.Unlock()
}

func (p *fakePresenter) ShowLocations(locations []weather.SavedLocation, selectedID string) {
	p.mu.Lock()
	p.locations = append(p.locations, locations)
	p.selected = append(p.selected, selectedID)
	p.mu.Unlock()
}

func (p *fakePresenter) Notify(level, message string) {
	p.mu.Lock()
	p.notices = append(p.notices, notice{level: level, message: message})
	p.mu.Unlock()
}

func (p *fakePresenter) lastNotice() (notice, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.notices) == 0 {
		return notice{}, false
	}
	return p.notices[len(p.notices)-1], true
}

func (p *fakePresenter) hasNotice(message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range p.notices {
		if n.message == message {
			return true
		}
	}
	return false
}

func (p *fakePresenter) lastForecast() (shownForecast, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.forecasts) == 0 {
		return shownForecast{}, false
	}
	return p.forecasts[len(p.forecasts)-1], true
}

type fakeGeo struct {
	fn func(ctx context.Context) (Coordinates, error)
}

func (g *fakeGeo) CurrentPosition(ctx context.Context) (Coordinates, error) {
	if g.fn != nil {
		return g.fn(ctx)
	}
	return Coordinates{Latitude: 40.71, Longitude: -74.0}, nil
}

type fakeConfirmer struct {
	answer  bool
	prompts []string
}

func (c *fakeConfirmer) Confirm(message string) bool {
	c.prompts = append(c.prompts, message)
	return c.answer
}

func newTestApp() (*App, *fakeRemote, *fakePresenter, *fakeGeo, *fakeConfirmer) {
	remote := &fakeRemote{}
	presenter := &fakePresenter{}
	geo := &fakeGeo{}
	confirmer := &fakeConfirmer{answer: true}
	app := New(remote, geo, confirmer, presenter)
	return app, remote, presenter, geo, confirmer
}

// seedSaved installs a saved-location list and a principal without going
// through the network login flow.
func seedSaved(app *App, remote *fakeRemote, locs ...weather.SavedLocation) *Principal {
	remote.listFn = func(string) ([]weather.SavedLocation, error) {
		return locs, nil
	}
	p := &Principal{Email: "user@example.com", ID: 1}
	app.Session.mu.Lock()
	app.Session.principal = p
	app.Session.mu.Unlock()
	_ = app.Locations.Reload(context.Background(), p)
	return p
}
