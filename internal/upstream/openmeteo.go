// Package upstream is the Open-Meteo client used by the dashboard
// service: live forecasts, the historical archive, and geocoding, all
// behind one resilient request path.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"weather-dashboard/internal/weather"
)

// ErrNoResults is returned when a geocoding query matches nothing.
var ErrNoResults = errors.New("location not found")

// Client calls the Open-Meteo APIs.
type Client struct {
	http        *http.Client
	forecastURL string
	archiveURL  string
	geocodeURL  string
	backoff     BackoffConfig
	circuit     *gobreaker.CircuitBreaker
}

// NewClient creates a Client for the given endpoint bases.
func NewClient(httpClient *http.Client, forecastBase, archiveURL, geocodeBase string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		http:        httpClient,
		forecastURL: strings.TrimRight(forecastBase, "/") + "/forecast",
		archiveURL:  archiveURL,
		geocodeURL:  strings.TrimRight(geocodeBase, "/") + "/search",
		backoff: BackoffConfig{
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		circuit: cb,
	}
}

// ForecastData is the raw forecast response subset we consume.
type ForecastData struct {
	Current struct {
		Time                string  `json:"time"`
		Temperature2m       float64 `json:"temperature_2m"`
		RelativeHumidity2m  int     `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed10m        float64 `json:"wind_speed_10m"`
		PressureMsl         float64 `json:"pressure_msl"`
	} `json:"current"`
	Daily struct {
		Time                        []string  `json:"time"`
		WeatherCode                 []int     `json:"weather_code"`
		Temperature2mMax            []float64 `json:"temperature_2m_max"`
		Temperature2mMin            []float64 `json:"temperature_2m_min"`
		PrecipitationProbabilityMax []*int    `json:"precipitation_probability_max"`
		WindSpeed10mMax             []float64 `json:"wind_speed_10m_max"`
		RelativeHumidity2mMean      []float64 `json:"relative_humidity_2m_mean"`
	} `json:"daily"`
	Hourly struct {
		Time                     []string  `json:"time"`
		Temperature2m            []float64 `json:"temperature_2m"`
		RelativeHumidity2m       []int     `json:"relative_humidity_2m"`
		WeatherCode              []int     `json:"weather_code"`
		WindSpeed10m             []float64 `json:"wind_speed_10m"`
		PrecipitationProbability []*int    `json:"precipitation_probability"`
	} `json:"hourly"`
}

// Forecast fetches current, daily, and hourly data for a coordinate pair.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int, timezone string) (ForecastData, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,wind_direction_10m,pressure_msl,surface_pressure")
		values.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,wind_speed_10m_max,relative_humidity_2m_mean")
		values.Set("hourly", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m,wind_direction_10m,precipitation_probability")
		values.Set("temperature_unit", "celsius")
		values.Set("wind_speed_unit", "mph")
		values.Set("precipitation_unit", "mm")
		values.Set("timezone", timezone)
		values.Set("forecast_days", fmt.Sprintf("%d", days))
		return http.NewRequest(http.MethodGet, c.forecastURL+"?"+values.Encode(), nil)
	}

	var data ForecastData
	resp, err := doWithResilience(ctx, c.http, c.backoff, c.circuit, buildRequest)
	if err != nil {
		return data, fmt.Errorf("openmeteo forecast: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return data, fmt.Errorf("openmeteo forecast: decode: %w", err)
	}
	return data, nil
}

// ArchiveData is the raw historical-archive response subset we consume.
type ArchiveData struct {
	Daily struct {
		Time                   []string   `json:"time"`
		WeatherCode            []*int     `json:"weather_code"`
		Temperature2mMax       []*float64 `json:"temperature_2m_max"`
		Temperature2mMin       []*float64 `json:"temperature_2m_min"`
		RelativeHumidity2mMean []*float64 `json:"relative_humidity_2m_mean"`
		PrecipitationSum       []*float64 `json:"precipitation_sum"`
		WindSpeed10mMax        []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// Archive fetches daily historical records for an inclusive date range.
func (c *Client) Archive(ctx context.Context, lat, lon float64, start, end time.Time) (ArchiveData, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", lat))
		values.Set("longitude", fmt.Sprintf("%f", lon))
		values.Set("start_date", start.Format("2006-01-02"))
		values.Set("end_date", end.Format("2006-01-02"))
		values.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,relative_humidity_2m_mean,precipitation_sum,wind_speed_10m_max")
		values.Set("timezone", "auto")
		return http.NewRequest(http.MethodGet, c.archiveURL+"?"+values.Encode(), nil)
	}

	var data ArchiveData
	resp, err := doWithResilience(ctx, c.http, c.backoff, c.circuit, buildRequest)
	if err != nil {
		return data, fmt.Errorf("openmeteo archive: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return data, fmt.Errorf("openmeteo archive: decode: %w", err)
	}
	return data, nil
}

// Geocode resolves a free-text query to its best candidate.
func (c *Client) Geocode(ctx context.Context, query string) (weather.Candidate, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", query)
		values.Set("count", "1")
		values.Set("language", "en")
		values.Set("format", "json")
		return http.NewRequest(http.MethodGet, c.geocodeURL+"?"+values.Encode(), nil)
	}

	resp, err := doWithResilience(ctx, c.http, c.backoff, c.circuit, buildRequest)
	if err != nil {
		return weather.Candidate{}, fmt.Errorf("openmeteo geocode: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Admin1    string  `json:"admin1"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Candidate{}, fmt.Errorf("openmeteo geocode: decode: %w", err)
	}
	if len(payload.Results) == 0 {
		return weather.Candidate{}, ErrNoResults
	}

	r := payload.Results[0]
	return weather.Candidate{
		Name:      formatCandidateName(r.Name, r.Admin1, r.Country),
		Region:    r.Admin1,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}, nil
}

// formatCandidateName builds the display name shown in previews: US
// places drop the country, everything else keeps it.
func formatCandidateName(base, region, country string) string {
	switch {
	case region != "" && country == "United States":
		return fmt.Sprintf("%s, %s", base, region)
	case region != "" && country != "":
		return fmt.Sprintf("%s, %s, %s", base, region, country)
	case country != "" && country != "United States":
		return fmt.Sprintf("%s, %s", base, country)
	default:
		return base
	}
}
