package weather

import (
	"fmt"
	"math"
	"time"
)

// LocationInfo is the resolved place metadata attached to a forecast
// response. For saved locations the dashboard substitutes the saved
// display name and blanks region/country.
type LocationInfo struct {
	Name      string `json:"name"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Localtime string `json:"localtime"`
}

// CurrentConditions is the current-weather snapshot of a forecast response.
type CurrentConditions struct {
	TempF      float64 `json:"temp_f"`
	TempC      float64 `json:"temp_c"`
	Condition  string  `json:"condition"`
	Icon       string  `json:"icon"`
	Humidity   int     `json:"humidity"`
	WindMph    float64 `json:"wind_mph"`
	WindDir    string  `json:"wind_dir"`
	PressureIn float64 `json:"pressure_in"`
	FeelslikeF float64 `json:"feelslike_f"`
	FeelslikeC float64 `json:"feelslike_c"`
	UV         float64 `json:"uv"`
	VisMiles   float64 `json:"vis_miles"`
}

// HourlyConditions is one hour inside a forecast day.
type HourlyConditions struct {
	Time         string  `json:"time"`
	TempF        float64 `json:"temp_f"`
	TempC        float64 `json:"temp_c"`
	Condition    string  `json:"condition"`
	Icon         string  `json:"icon"`
	ChanceOfRain int     `json:"chance_of_rain"`
	WindMph      float64 `json:"wind_mph"`
	WindDir      string  `json:"wind_dir"`
	Humidity     int     `json:"humidity"`
}

// DailySummary is one day of a multi-day forecast, carrying its hourly
// sub-sequence.
type DailySummary struct {
	Date         string             `json:"date"`
	DayName      string             `json:"day_name"`
	MaxTempF     float64            `json:"max_temp_f"`
	MaxTempC     float64            `json:"max_temp_c"`
	MinTempF     float64            `json:"min_temp_f"`
	MinTempC     float64            `json:"min_temp_c"`
	Condition    string             `json:"condition"`
	Icon         string             `json:"icon"`
	ChanceOfRain int                `json:"chance_of_rain"`
	Humidity     int                `json:"humidity"`
	WindMph      float64            `json:"wind_mph"`
	Hourly       []HourlyConditions `json:"hourly"`
}

// ForecastPayload is the full forecast response for one location. It is
// replaced wholesale on every successful fetch, never patched.
type ForecastPayload struct {
	Location LocationInfo      `json:"location"`
	Current  CurrentConditions `json:"current"`
	Forecast []DailySummary    `json:"forecast"`

	// FetchedAt is set client-side when the payload is accepted.
	FetchedAt time.Time `json:"-"`
}

// HourlyPayload is the hourly-only response used for the quick
// current-location view.
type HourlyPayload struct {
	Location LocationInfo       `json:"location"`
	Current  CurrentConditions  `json:"current"`
	Hourly   []HourlyConditions `json:"hourly"`
}

// Candidate is a geocoding result awaiting user confirmation before it
// is persisted as a saved location.
type Candidate struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SavedLocation is a server-persisted location owned by one user. ID is
// the server-assigned stable identifier; list order is server-defined
// and may change between reloads, so locations are always addressed by
// ID, never by position.
type SavedLocation struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	CreatedAt string  `json:"created_at"`
}

// CoordTolerance is the matching tolerance, in degrees on each axis,
// used to recognise a just-saved location in a reloaded list.
const CoordTolerance = 0.001

// CoordsMatch reports whether two coordinate pairs refer to the same
// place within CoordTolerance.
func CoordsMatch(lat1, lon1, lat2, lon2 float64) bool {
	return math.Abs(lat1-lat2) < CoordTolerance && math.Abs(lon1-lon2) < CoordTolerance
}

// HistoryDay is one day of stored historical weather.
type HistoryDay struct {
	Date          string  `json:"date"`
	DayName       string  `json:"day_name"`
	MaxTempF      float64 `json:"max_temp_f"`
	MaxTempC      float64 `json:"max_temp_c"`
	MinTempF      float64 `json:"min_temp_f"`
	MinTempC      float64 `json:"min_temp_c"`
	Condition     string  `json:"condition"`
	Icon          string  `json:"icon"`
	Precipitation float64 `json:"precipitation"`
	Humidity      int     `json:"humidity"`
	WindMph       float64 `json:"wind_mph"`
}

// HistoryPeriod describes the date range actually covered by a history
// response; a month in progress has fewer days than the calendar month.
type HistoryPeriod struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalDays int    `json:"total_days"`
}

// HistoryPayload is the monthly-history response for a saved location.
type HistoryPayload struct {
	Location  LocationInfo  `json:"location"`
	Days      []HistoryDay  `json:"historical_data"`
	Period    HistoryPeriod `json:"period"`
	FromCache bool          `json:"from_cache"`
}

// CelsiusToFahrenheit converts a temperature reading.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9.0/5.0 + 32.0
}

// Round1 rounds to one decimal place, matching the wire precision used
// throughout the payloads.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DayNameOf returns the weekday name for a YYYY-MM-DD date string, or
// the empty string if the date does not parse.
func DayNameOf(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

// FormatCoords renders a coordinate pair for display, e.g. "40.71, -74.01".
func FormatCoords(lat, lon float64) string {
	return fmt.Sprintf("%.2f, %.2f", lat, lon)
}
