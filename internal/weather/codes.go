package weather

// WMO weather interpretation codes as reported by Open-Meteo.
var codeDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// CodeDescription maps a WMO weather code to a human-readable condition.
func CodeDescription(code int) string {
	if desc, ok := codeDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

// CodeIcon maps a WMO weather code to a display icon.
func CodeIcon(code int, isDay bool) string {
	switch {
	case code == 0, code == 1:
		if isDay {
			if code == 0 {
				return "☀️"
			}
			return "🌤️"
		}
		return "🌙"
	case code == 2:
		return "⛅"
	case code == 3:
		return "☁️"
	case code == 45 || code == 48:
		return "🌫️"
	case code == 51 || code == 53:
		return "🌦️"
	case code == 55 || code == 61 || code == 63:
		return "🌧️"
	case code == 65 || code >= 95:
		return "⛈️"
	case code == 71 || code == 75:
		return "🌨️"
	case code == 73:
		return "❄️"
	default:
		if isDay {
			return "☀️"
		}
		return "🌙"
	}
}
