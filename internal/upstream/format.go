package upstream

import (
	"strings"
	"time"

	"weather-dashboard/internal/weather"
)

// BuildCurrent normalizes the raw current block into wire shape.
func BuildCurrent(data ForecastData) weather.CurrentConditions {
	cur := data.Current
	return weather.CurrentConditions{
		TempF:      weather.Round1(weather.CelsiusToFahrenheit(cur.Temperature2m)),
		TempC:      weather.Round1(cur.Temperature2m),
		Condition:  weather.CodeDescription(cur.WeatherCode),
		Icon:       weather.CodeIcon(cur.WeatherCode, true),
		Humidity:   cur.RelativeHumidity2m,
		WindMph:    weather.Round1(cur.WindSpeed10m),
		WindDir:    "N",
		PressureIn: weather.Round2(cur.PressureMsl * 0.02953),
		FeelslikeF: weather.Round1(weather.CelsiusToFahrenheit(cur.ApparentTemperature)),
		FeelslikeC: weather.Round1(cur.ApparentTemperature),
		UV:         0,
		VisMiles:   10.0,
	}
}

// buildHourly extracts hourly entries. dateFilter narrows to one
// YYYY-MM-DD day; limit > 0 keeps at most that many entries starting
// from the current hour.
func buildHourly(data ForecastData, dateFilter string, limit int, now time.Time) []weather.HourlyConditions {
	hourly := data.Hourly
	out := []weather.HourlyConditions{}

	for i, hourTime := range hourly.Time {
		// The arrays are parallel; a ragged response ends the usable rows.
		if i >= len(hourly.Temperature2m) || i >= len(hourly.WeatherCode) ||
			i >= len(hourly.RelativeHumidity2m) || i >= len(hourly.WindSpeed10m) {
			break
		}
		if dateFilter != "" && !strings.HasPrefix(hourTime, dateFilter) {
			continue
		}
		if limit > 0 {
			if t, err := time.Parse("2006-01-02T15:04", hourTime); err == nil && t.Hour() < now.Hour() {
				continue
			}
			if len(out) >= limit {
				break
			}
		}

		chance := 0
		if i < len(hourly.PrecipitationProbability) && hourly.PrecipitationProbability[i] != nil {
			chance = *hourly.PrecipitationProbability[i]
		}
		out = append(out, weather.HourlyConditions{
			Time:         hourTime,
			TempF:        weather.Round1(weather.CelsiusToFahrenheit(hourly.Temperature2m[i])),
			TempC:        weather.Round1(hourly.Temperature2m[i]),
			Condition:    weather.CodeDescription(hourly.WeatherCode[i]),
			Icon:         weather.CodeIcon(hourly.WeatherCode[i], true),
			ChanceOfRain: chance,
			WindMph:      weather.Round1(hourly.WindSpeed10m[i]),
			WindDir:      "N",
			Humidity:     hourly.RelativeHumidity2m[i],
		})
	}
	return out
}

// BuildForecast assembles the full 7-day payload with per-day hourly
// sequences.
func BuildForecast(data ForecastData, loc weather.LocationInfo, now time.Time) weather.ForecastPayload {
	daily := data.Daily
	days := make([]weather.DailySummary, 0, len(daily.Time))

	for i, date := range daily.Time {
		if i >= len(daily.WeatherCode) || i >= len(daily.Temperature2mMax) ||
			i >= len(daily.Temperature2mMin) || i >= len(daily.WindSpeed10mMax) ||
			i >= len(daily.RelativeHumidity2mMean) {
			break
		}
		chance := 0
		if i < len(daily.PrecipitationProbabilityMax) && daily.PrecipitationProbabilityMax[i] != nil {
			chance = *daily.PrecipitationProbabilityMax[i]
		}
		days = append(days, weather.DailySummary{
			Date:         date,
			DayName:      weather.DayNameOf(date),
			MaxTempF:     weather.Round1(weather.CelsiusToFahrenheit(daily.Temperature2mMax[i])),
			MaxTempC:     weather.Round1(daily.Temperature2mMax[i]),
			MinTempF:     weather.Round1(weather.CelsiusToFahrenheit(daily.Temperature2mMin[i])),
			MinTempC:     weather.Round1(daily.Temperature2mMin[i]),
			Condition:    weather.CodeDescription(daily.WeatherCode[i]),
			Icon:         weather.CodeIcon(daily.WeatherCode[i], true),
			ChanceOfRain: chance,
			Humidity:     int(daily.RelativeHumidity2mMean[i] + 0.5),
			WindMph:      weather.Round1(daily.WindSpeed10mMax[i]),
			Hourly:       buildHourly(data, date, 0, now),
		})
	}

	loc.Localtime = now.Format("2006-01-02 15:04")
	return weather.ForecastPayload{
		Location: loc,
		Current:  BuildCurrent(data),
		Forecast: days,
	}
}

// BuildHourlyPayload assembles the hourly-only view: current conditions
// plus the next `limit` hours.
func BuildHourlyPayload(data ForecastData, loc weather.LocationInfo, now time.Time, limit int) weather.HourlyPayload {
	loc.Localtime = now.Format("2006-01-02 15:04")
	return weather.HourlyPayload{
		Location: loc,
		Current:  BuildCurrent(data),
		Hourly:   buildHourly(data, "", limit, now),
	}
}

// BuildArchiveDays converts archive records to history days, skipping
// dates with missing essential readings.
func BuildArchiveDays(data ArchiveData) []weather.HistoryDay {
	daily := data.Daily
	out := make([]weather.HistoryDay, 0, len(daily.Time))

	for i, date := range daily.Time {
		if i >= len(daily.Temperature2mMax) || i >= len(daily.Temperature2mMin) || i >= len(daily.WeatherCode) {
			break
		}
		if daily.Temperature2mMax[i] == nil || daily.Temperature2mMin[i] == nil || daily.WeatherCode[i] == nil {
			continue
		}
		maxC := *daily.Temperature2mMax[i]
		minC := *daily.Temperature2mMin[i]
		code := *daily.WeatherCode[i]

		humidity := 0
		if i < len(daily.RelativeHumidity2mMean) && daily.RelativeHumidity2mMean[i] != nil {
			humidity = int(*daily.RelativeHumidity2mMean[i] + 0.5)
		}
		precip := 0.0
		if i < len(daily.PrecipitationSum) && daily.PrecipitationSum[i] != nil {
			precip = *daily.PrecipitationSum[i]
		}
		wind := 0.0
		if i < len(daily.WindSpeed10mMax) && daily.WindSpeed10mMax[i] != nil {
			wind = *daily.WindSpeed10mMax[i]
		}

		out = append(out, weather.HistoryDay{
			Date:          date,
			DayName:       weather.DayNameOf(date),
			MaxTempF:      weather.Round1(weather.CelsiusToFahrenheit(maxC)),
			MaxTempC:      weather.Round1(maxC),
			MinTempF:      weather.Round1(weather.CelsiusToFahrenheit(minC)),
			MinTempC:      weather.Round1(minC),
			Condition:     weather.CodeDescription(code),
			Icon:          weather.CodeIcon(code, true),
			Precipitation: weather.Round2(precip),
			Humidity:      humidity,
			WindMph:       weather.Round1(wind),
		})
	}
	return out
}
