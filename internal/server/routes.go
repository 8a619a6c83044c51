// Package server implements the dashboard service HTTP contract over
// fiber. Responses use the tagged envelope {status: success|error}:
// business failures are status "error" with a message, transport-level
// problems surface as non-2xx through the app error handler.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-dashboard/internal/store"
	"weather-dashboard/internal/upstream"
	"weather-dashboard/internal/weather"
)

var validate = validator.New()

// Fixed default location served without authentication.
const (
	nycLat = 40.7128
	nycLon = -74.0060
)

var nycLocation = weather.LocationInfo{
	Name:    "New York City",
	Region:  "New York",
	Country: "United States",
}

// WeatherAPI is the upstream surface the handlers need; *upstream.Client
// satisfies it.
type WeatherAPI interface {
	Forecast(ctx context.Context, lat, lon float64, days int, timezone string) (upstream.ForecastData, error)
	Archive(ctx context.Context, lat, lon float64, start, end time.Time) (upstream.ArchiveData, error)
	Geocode(ctx context.Context, query string) (weather.Candidate, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, st *store.MemoryStore, up WeatherAPI) {
	app.Post("/auth/login", func(c *fiber.Ctx) error {
		var req struct {
			Email string `json:"email" validate:"required,contains=@,contains=."`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fail(c, "Please provide a valid email address")
		}

		user, existed := st.GetOrCreateUser(req.Email)
		status := "new"
		message := "Welcome! Your account has been created."
		if existed {
			status = "existing"
			message = "Welcome back!"
		}

		return c.JSON(fiber.Map{
			"status":      "success",
			"email":       user.Email,
			"user_id":     user.ID,
			"user_status": status,
			"message":     message,
		})
	})

	app.Get("/weather/nyc-forecast", func(c *fiber.Ctx) error {
		data, err := up.Forecast(c.Context(), nycLat, nycLon, 7, "America/New_York")
		if err != nil {
			return fail(c, fmt.Sprintf("Weather service error: %v", err))
		}
		return ok(c, upstream.BuildForecast(data, nycLocation, time.Now()))
	})

	app.Post("/weather/location-forecast", func(c *fiber.Ctx) error {
		req, err := parseCoords(c)
		if err != nil {
			return fail(c, "Latitude and longitude are required")
		}
		data, err := up.Forecast(c.Context(), req.Latitude, req.Longitude, 7, "auto")
		if err != nil {
			return fail(c, fmt.Sprintf("Weather API error: %v", err))
		}
		loc := weather.LocationInfo{Name: "Current Location"}
		return ok(c, upstream.BuildForecast(data, loc, time.Now()))
	})

	app.Post("/weather/current-location-hourly", func(c *fiber.Ctx) error {
		req, err := parseCoords(c)
		if err != nil {
			return fail(c, "Latitude and longitude are required")
		}
		data, err := up.Forecast(c.Context(), req.Latitude, req.Longitude, 1, "auto")
		if err != nil {
			return fail(c, fmt.Sprintf("Weather service error: %v", err))
		}
		loc := weather.LocationInfo{Name: "Current Location"}
		return ok(c, upstream.BuildHourlyPayload(data, loc, time.Now(), 12))
	})

	app.Post("/search-location", func(c *fiber.Ctx) error {
		var req struct {
			Location string `json:"location" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil || req.Location == "" {
			return fail(c, "Location is required")
		}

		cand, err := up.Geocode(c.Context(), req.Location)
		if err != nil {
			if errors.Is(err, upstream.ErrNoResults) {
				return fail(c, "Location not found. Please check the spelling and try again.")
			}
			return fail(c, "Location search service unavailable. Please try again later.")
		}
		return c.JSON(fiber.Map{
			"status":   "success",
			"location": cand,
		})
	})

	app.Get("/get-locations/:email", func(c *fiber.Ctx) error {
		user, err := st.UserByEmail(c.Params("email"))
		if err != nil {
			return fail(c, "User not found")
		}
		return c.JSON(fiber.Map{
			"status":    "success",
			"locations": st.ListLocations(user.ID),
		})
	})

	app.Post("/save-location", func(c *fiber.Ctx) error {
		var req struct {
			Email      string            `json:"email" validate:"required"`
			Location   weather.Candidate `json:"location"`
			CustomName string            `json:"custom_name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil || req.Location.Name == "" {
			return fail(c, "Email and location data are required")
		}

		user, err := st.UserByEmail(req.Email)
		if err != nil {
			return fail(c, "User not found")
		}

		saved, err := st.SaveLocation(user.ID, req.Location, req.CustomName)
		if err != nil {
			if errors.Is(err, store.ErrDuplicateLocation) {
				return fail(c, fmt.Sprintf("%s is already in your saved locations", req.Location.Name))
			}
			return fail(c, fmt.Sprintf("Error saving location: %v", err))
		}

		return c.JSON(fiber.Map{
			"status":   "success",
			"message":  fmt.Sprintf("Added %s to your saved locations", req.Location.Name),
			"location": saved,
		})
	})

	app.Post("/remove-location", func(c *fiber.Ctx) error {
		var req struct {
			Email      string `json:"email" validate:"required"`
			LocationID string `json:"location_id" validate:"required"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fail(c, "Email and location ID are required")
		}

		user, err := st.UserByEmail(req.Email)
		if err != nil {
			return fail(c, "User not found")
		}

		name, err := st.RemoveLocation(user.ID, req.LocationID)
		if err != nil {
			return fail(c, "Location not found or access denied")
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": fmt.Sprintf("Removed %s from your saved locations", name),
		})
	})

	app.Post("/weather/history", func(c *fiber.Ctx) error {
		var req struct {
			Email          string `json:"email" validate:"required"`
			UserLocationID string `json:"user_location_id" validate:"required"`
			Year           int    `json:"year" validate:"required,gte=1940"`
			Month          int    `json:"month" validate:"required,gte=1,lte=12"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fail(c, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fail(c, "Email, user_location_id, year, and month are required")
		}

		user, err := st.UserByEmail(req.Email)
		if err != nil {
			return fail(c, "User not found")
		}
		loc, err := st.GetLocation(user.ID, req.UserLocationID)
		if err != nil {
			return fail(c, "Location not found or access denied")
		}

		return serveHistory(c, st, up, loc, req.Year, req.Month)
	})
}

func serveHistory(c *fiber.Ctx, st *store.MemoryStore, up WeatherAPI, loc weather.SavedLocation, year, month int) error {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	today := time.Now().UTC().Truncate(24 * time.Hour)

	if start.After(today) {
		return fail(c, "Cannot retrieve history for future dates")
	}
	if end.After(today) {
		end = today
	}

	locInfo := weather.LocationInfo{Name: loc.Name}

	cached, complete := st.HistoryRange(loc.Latitude, loc.Longitude, start, end)
	if complete {
		return ok(c, historyPayload(locInfo, cached, true))
	}

	data, err := up.Archive(c.Context(), loc.Latitude, loc.Longitude, start, end)
	if err != nil {
		return fail(c, fmt.Sprintf("Weather history error: %v", err))
	}
	days := upstream.BuildArchiveDays(data)
	st.PutHistory(loc.Latitude, loc.Longitude, days)

	fresh, _ := st.HistoryRange(loc.Latitude, loc.Longitude, start, end)
	return ok(c, historyPayload(locInfo, fresh, false))
}

func historyPayload(loc weather.LocationInfo, days []weather.HistoryDay, fromCache bool) weather.HistoryPayload {
	period := weather.HistoryPeriod{TotalDays: len(days)}
	if len(days) > 0 {
		period.StartDate = days[0].Date
		period.EndDate = days[len(days)-1].Date
	}
	return weather.HistoryPayload{
		Location:  loc,
		Days:      days,
		Period:    period,
		FromCache: fromCache,
	}
}

type coordsRequest struct {
	Latitude  float64
	Longitude float64
}

// parseCoords reads the latitude/longitude request body shared by the
// coordinate endpoints.
func parseCoords(c *fiber.Ctx) (coordsRequest, error) {
	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := c.BodyParser(&req); err != nil {
		return coordsRequest{}, err
	}
	if req.Latitude == nil || req.Longitude == nil {
		return coordsRequest{}, errors.New("latitude and longitude are required")
	}
	return coordsRequest{Latitude: *req.Latitude, Longitude: *req.Longitude}, nil
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func fail(c *fiber.Ctx, message string) error {
	return c.JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
