// Command weather-dashboard is a terminal front end for the dashboard
// core: it binds console commands to the core components' methods and
// renders their state changes as text. All state logic lives in
// internal/dashboard; this binary is only the adapter layer.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"weather-dashboard/internal/api"
	"weather-dashboard/internal/config"
	"weather-dashboard/internal/dashboard"
	"weather-dashboard/internal/refresh"
	"weather-dashboard/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	remote := api.NewClient(cfg.ServiceBaseURL, httpClient)

	in := bufio.NewScanner(os.Stdin)
	term := &terminal{in: in}

	app := dashboard.New(remote, envGeolocator{}, term, term)

	refresher := refresh.New(app.Selection, cfg.RefreshInterval, cfg.HTTPTimeout)
	if err := refresher.Start(); err != nil {
		log.Fatalf("failed to start auto-refresh: %v", err)
	}
	defer refresher.Stop()

	ctx := context.Background()
	if err := app.Initialize(ctx); err != nil {
		log.Printf("initial load failed: %v", err)
	}

	fmt.Println(`Commands: login <email> | logout | default | here | list | switch <n> |
add <query> | save [custom name] | cancel | remove <n> | day <i> |
history | next | prev | back | refresh | quit`)

	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		cmd, arg := splitCommand(in.Text())

		switch cmd {
		case "quit", "exit":
			return
		case "login":
			_ = app.Session.Login(ctx, arg)
		case "logout":
			_ = app.Session.Logout(ctx)
		case "default":
			_ = app.Selection.SwitchTo(ctx, dashboard.View{Kind: dashboard.ViewDefault})
		case "here":
			_ = app.Selection.SwitchTo(ctx, dashboard.View{Kind: dashboard.ViewDevice})
		case "list":
			term.ShowLocations(app.Locations.Snapshot(), selectedID(app))
		case "switch":
			if loc, ok := locationAt(app, arg); ok {
				app.Locations.Select(loc.ID)
				_ = app.Selection.SwitchTo(ctx, dashboard.View{Kind: dashboard.ViewSaved, SavedID: loc.ID})
			}
		case "add":
			if cand, err := app.Locations.Search(ctx, principalOf(app), arg); err == nil {
				fmt.Printf("Found %s (%s) at %s — `save` to confirm, `cancel` to discard\n",
					cand.Name, cand.Country, weather.FormatCoords(cand.Latitude, cand.Longitude))
			}
		case "save":
			_, _ = app.Locations.ConfirmSave(ctx, principalOf(app), arg)
		case "cancel":
			app.Locations.CancelPending()
		case "remove":
			if loc, ok := locationAt(app, arg); ok {
				_ = app.Locations.Remove(ctx, principalOf(app), loc.ID)
			}
		case "day":
			if i, err := strconv.Atoi(arg); err == nil {
				if err := app.Selection.SelectDay(i); err != nil {
					fmt.Println("No such forecast day.")
				}
			}
		case "history":
			_ = app.History.Enter(ctx)
		case "next":
			_ = app.History.Navigate(ctx, +1)
		case "prev":
			_ = app.History.Navigate(ctx, -1)
		case "back":
			_ = app.History.Exit(ctx)
		case "refresh":
			_ = app.Selection.Refresh(ctx)
		case "":
		default:
			fmt.Println("Unknown command.")
		}
	}
}

func splitCommand(line string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd := strings.ToLower(parts[0])
	if len(parts) == 2 {
		return cmd, strings.TrimSpace(parts[1])
	}
	return cmd, ""
}

func principalOf(app *dashboard.App) *dashboard.Principal {
	if p, ok := app.Session.Principal(); ok {
		return &p
	}
	return nil
}

func selectedID(app *dashboard.App) string {
	if view, _ := app.Selection.Current(); view.Kind == dashboard.ViewSaved || view.Kind == dashboard.ViewHistory {
		return view.SavedID
	}
	return ""
}

// locationAt resolves a 1-based list position typed by the user into
// the underlying record. Everything downstream addresses it by stable
// id; the position is only ever a console shorthand.
func locationAt(app *dashboard.App, arg string) (weather.SavedLocation, bool) {
	n, err := strconv.Atoi(arg)
	list := app.Locations.Snapshot()
	if err != nil || n < 1 || n > len(list) {
		fmt.Println("No such saved location; use `list`.")
		return weather.SavedLocation{}, false
	}
	return list[n-1], true
}

// envGeolocator resolves the "device position" from DEVICE_LAT and
// DEVICE_LON; a terminal has no GPS, so absence of the variables is the
// unsupported-capability case.
type envGeolocator struct{}

func (envGeolocator) CurrentPosition(ctx context.Context) (dashboard.Coordinates, error) {
	latStr, lonStr := os.Getenv("DEVICE_LAT"), os.Getenv("DEVICE_LON")
	if latStr == "" || lonStr == "" {
		return dashboard.Coordinates{}, &dashboard.GeolocationError{Code: dashboard.GeoUnsupported}
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return dashboard.Coordinates{}, &dashboard.GeolocationError{Code: dashboard.GeoPositionUnavailable, Err: err}
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return dashboard.Coordinates{}, &dashboard.GeolocationError{Code: dashboard.GeoPositionUnavailable, Err: err}
	}
	return dashboard.Coordinates{Latitude: lat, Longitude: lon}, nil
}

// terminal renders core state changes and answers confirmation prompts.
type terminal struct {
	in *bufio.Scanner
}

func (t *terminal) ShowForecast(view dashboard.View, payload weather.ForecastPayload, dayIndex int) {
	fmt.Printf("\n== %s — 7 Day Forecast ==\n", payload.Location.Name)
	fmt.Printf("Now: %.0f°F %s %s  (humidity %d%%, wind %.0f mph)\n",
		payload.Current.TempF, payload.Current.Icon, payload.Current.Condition,
		payload.Current.Humidity, payload.Current.WindMph)
	for i, day := range payload.Forecast {
		marker := "  "
		if i == dayIndex {
			marker = "> "
		}
		fmt.Printf("%s[%d] %-9s %s %3.0f° / %3.0f°  %s\n",
			marker, i, day.DayName, day.Date, day.MaxTempF, day.MinTempF, day.Condition)
	}
}

func (t *terminal) ShowDay(payload weather.ForecastPayload, dayIndex int) {
	day := payload.Forecast[dayIndex]
	fmt.Printf("\n%s %s: %s, high %.0f°F, low %.0f°F, %d%% rain\n",
		day.DayName, day.Date, day.Condition, day.MaxTempF, day.MinTempF, day.ChanceOfRain)
	for _, h := range day.Hourly {
		fmt.Printf("  %s  %3.0f°F  %s\n", h.Time, h.TempF, h.Condition)
	}
}

func (t *terminal) ShowHistory(loc weather.SavedLocation, payload weather.HistoryPayload, stats weather.MonthStats) {
	fmt.Printf("\n== %s — history (%s … %s) ==\n", loc.Name, payload.Period.StartDate, payload.Period.EndDate)
	fmt.Printf("Avg %.1f°F  High %.0f°F  Low %.0f°F  Precip %.1f mm over %d days\n",
		stats.AvgTempF, stats.MaxTempF, stats.MinTempF, stats.TotalPrecipMM, stats.TotalDays)
	for _, day := range payload.Days {
		fmt.Printf("  %s %-9s %3.0f° / %3.0f°  %s  %.1fmm\n",
			day.Date, day.DayName, day.MaxTempF, day.MinTempF, day.Condition, day.Precipitation)
	}
}

func (t *terminal) ShowLocations(locations []weather.SavedLocation, selectedID string) {
	if len(locations) == 0 {
		fmt.Println("No saved locations yet.")
		return
	}
	for i, loc := range locations {
		marker := "  "
		if loc.ID == selectedID {
			marker = "* "
		}
		fmt.Printf("%s%d. %s (%s)\n", marker, i+1, loc.Name, weather.FormatCoords(loc.Latitude, loc.Longitude))
	}
}

func (t *terminal) Notify(level, message string) {
	fmt.Printf("[%s] %s\n", level, message)
}

func (t *terminal) Confirm(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	if !t.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(t.in.Text()))
	return answer == "y" || answer == "yes"
}
