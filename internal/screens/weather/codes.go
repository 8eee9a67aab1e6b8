package weather

// IconKind groups weather codes by the pictogram drawn for them.
type IconKind int

// Pictogram kinds.
const (
	KindUnknown IconKind = iota
	KindClear
	KindCloudy
	KindRain
	KindSnow
	KindStorm
)

// WMO weather interpretation codes used by Open-Meteo.
var descriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Rime fog",
	51: "Light drizzle",
	53: "Drizzle",
	55: "Dense drizzle",
	56: "Freezing drizzle",
	57: "Freezing drizzle",
	61: "Slight rain",
	63: "Rain",
	65: "Heavy rain",
	66: "Freezing rain",
	67: "Freezing rain",
	71: "Slight snow",
	73: "Snow",
	75: "Heavy snow",
	77: "Snow grains",
	80: "Rain showers",
	81: "Rain showers",
	82: "Violent showers",
	85: "Snow showers",
	86: "Snow showers",
	95: "Thunderstorm",
	96: "Storm, hail",
	99: "Storm, heavy hail",
}

// Description returns a short description of a weather code.
func Description(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "Unknown"
}

// Kind returns the pictogram kind for a weather code.
func Kind(code int) IconKind {
	switch {
	case code == 0 || code == 1:
		return KindClear
	case code == 2 || code == 3 || code == 45 || code == 48:
		return KindCloudy
	case code >= 51 && code <= 67, code >= 80 && code <= 82:
		return KindRain
	case code >= 71 && code <= 77, code == 85 || code == 86:
		return KindSnow
	case code >= 95 && code <= 99:
		return KindStorm
	default:
		return KindUnknown
	}
}
