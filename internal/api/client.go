// Package api is the HTTP client for the dashboard service. Every
// response is a tagged envelope {status: success|error, ...}; transport
// failures and non-success statuses surface as distinct error kinds so
// callers can keep server-provided messages verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"weather-dashboard/internal/weather"
)

// ErrServiceUnavailable marks transport-level failures: the service
// could not be reached or answered outside 2xx.
var ErrServiceUnavailable = errors.New("weather service unavailable")

// ServerError is a structured failure returned by the service itself
// (envelope status "error"). Message is the server text, verbatim.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Client talks to the dashboard service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client. httpClient may carry the caller's timeout;
// if nil a default 10s client is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Email      string `json:"email"`
	UserID     int64  `json:"user_id"`
	UserStatus string `json:"user_status"`
	Message    string `json:"message"`
}

// Login authenticates (or registers) by email.
func (c *Client) Login(ctx context.Context, email string) (LoginResult, error) {
	var resp struct {
		envelope
		Email      string `json:"email"`
		UserID     int64  `json:"user_id"`
		UserStatus string `json:"user_status"`
	}
	body := map[string]string{"email": email}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return LoginResult{}, err
	}
	if err := resp.envelope.err(); err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Email:      resp.Email,
		UserID:     resp.UserID,
		UserStatus: resp.UserStatus,
		Message:    resp.Message,
	}, nil
}

// DefaultForecast fetches the fixed default-location forecast.
func (c *Client) DefaultForecast(ctx context.Context) (weather.ForecastPayload, error) {
	var resp struct {
		envelope
		Data weather.ForecastPayload `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/weather/nyc-forecast", nil, &resp); err != nil {
		return weather.ForecastPayload{}, err
	}
	if err := resp.envelope.err(); err != nil {
		return weather.ForecastPayload{}, err
	}
	resp.Data.FetchedAt = time.Now()
	return resp.Data, nil
}

// CoordForecast fetches a 7-day forecast for a coordinate pair.
func (c *Client) CoordForecast(ctx context.Context, lat, lon float64) (weather.ForecastPayload, error) {
	var resp struct {
		envelope
		Data weather.ForecastPayload `json:"data"`
	}
	body := map[string]float64{"latitude": lat, "longitude": lon}
	if err := c.do(ctx, http.MethodPost, "/weather/location-forecast", body, &resp); err != nil {
		return weather.ForecastPayload{}, err
	}
	if err := resp.envelope.err(); err != nil {
		return weather.ForecastPayload{}, err
	}
	resp.Data.FetchedAt = time.Now()
	return resp.Data, nil
}

// CoordHourly fetches current conditions plus the next hours for a
// coordinate pair.
func (c *Client) CoordHourly(ctx context.Context, lat, lon float64) (weather.HourlyPayload, error) {
	var resp struct {
		envelope
		Data weather.HourlyPayload `json:"data"`
	}
	body := map[string]float64{"latitude": lat, "longitude": lon}
	if err := c.do(ctx, http.MethodPost, "/weather/current-location-hourly", body, &resp); err != nil {
		return weather.HourlyPayload{}, err
	}
	if err := resp.envelope.err(); err != nil {
		return weather.HourlyPayload{}, err
	}
	return resp.Data, nil
}

// SearchLocation geocodes a free-text query into a single candidate.
func (c *Client) SearchLocation(ctx context.Context, query string) (weather.Candidate, error) {
	var resp struct {
		envelope
		Location weather.Candidate `json:"location"`
	}
	body := map[string]string{"location": query}
	if err := c.do(ctx, http.MethodPost, "/search-location", body, &resp); err != nil {
		return weather.Candidate{}, err
	}
	if err := resp.envelope.err(); err != nil {
		return weather.Candidate{}, err
	}
	return resp.Location, nil
}

// ListLocations fetches the user's saved locations, in server order.
func (c *Client) ListLocations(ctx context.Context, email string) ([]weather.SavedLocation, error) {
	var resp struct {
		envelope
		Locations []weather.SavedLocation `json:"locations"`
	}
	path := "/get-locations/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if err := resp.envelope.err(); err != nil {
		return nil, err
	}
	return resp.Locations, nil
}

// SaveLocation persists a confirmed candidate, optionally under a custom
// display name. The echoed record is a hint only; callers re-resolve the
// stable id from a fresh list.
func (c *Client) SaveLocation(ctx context.Context, email string, cand weather.Candidate, customName string) (weather.SavedLocation, string, error) {
	var resp struct {
		envelope
		Location weather.SavedLocation `json:"location"`
	}
	body := map[string]interface{}{
		"email":    email,
		"location": cand,
	}
	if customName != "" {
		body["custom_name"] = customName
	}
	if err := c.do(ctx, http.MethodPost, "/save-location", body, &resp); err != nil {
		return weather.SavedLocation{}, "", err
	}
	if err := resp.envelope.err(); err != nil {
		return weather.SavedLocation{}, "", err
	}
	return resp.Location, resp.Message, nil
}

// RemoveLocation deletes a saved location by its stable id.
func (c *Client) RemoveLocation(ctx context.Context, email, locationID string) (string, error) {
	var resp envelope
	body := map[string]string{
		"email":       email,
		"location_id": locationID,
	}
	if err := c.do(ctx, http.MethodPost, "/remove-location", body, &resp); err != nil {
		return "", err
	}
	if err := resp.err(); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// MonthlyHistory fetches one calendar month of historical weather for a
// saved location.
func (c *Client) MonthlyHistory(ctx context.Context, email, locationID string, year, month int) (weather.HistoryPayload, error) {
	var resp struct {
		envelope
		Data weather.HistoryPayload `json:"data"`
	}
	body := map[string]interface{}{
		"email":            email,
		"user_location_id": locationID,
		"year":             year,
		"month":            month,
	}
	if err := c.do(ctx, http.MethodPost, "/weather/history", body, &resp); err != nil {
		return weather.HistoryPayload{}, err
	}
	if err := resp.envelope.err(); err != nil {
		return weather.HistoryPayload{}, err
	}
	return resp.Data, nil
}

// envelope is the common part of every service response.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e envelope) err() error {
	if e.Status == "success" {
		return nil
	}
	return &ServerError{Message: e.Message}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrServiceUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: bad response body: %v", ErrServiceUnavailable, err)
	}
	return nil
}
