package sky

import (
	"errors"
	"math"
	"time"
)

// ErrPolar is returned when the sun does not cross the horizon on a day.
var ErrPolar = errors.New("sun does not cross the horizon")

// zenith is the official sunrise zenith including refraction, in degrees.
const zenith = 90.833

// Sunrise returns the local sunrise on the given day.
func Sunrise(day time.Time, lat, lon float64, loc *time.Location) (time.Time, error) {
	return sunEvent(day, lat, lon, loc, true)
}

// Sunset returns the local sunset on the given day.
func Sunset(day time.Time, lat, lon float64, loc *time.Location) (time.Time, error) {
	return sunEvent(day, lat, lon, loc, false)
}

// sunEvent implements the NOAA almanac approximation, good to a couple of
// minutes away from the poles.
func sunEvent(day time.Time, lat, lon float64, loc *time.Location, rising bool) (time.Time, error) {
	day = day.In(loc)
	n := float64(day.YearDay())
	lngHour := lon / 15.0

	approx := 18.0
	if rising {
		approx = 6.0
	}
	t := n + (approx-lngHour)/24.0

	m := 0.9856*t - 3.289
	l := normalize(m+1.916*math.Sin(deg2rad(m))+0.020*math.Sin(2*deg2rad(m))+282.634, 360)
	ra := normalize(rad2deg(math.Atan(0.91764*math.Tan(deg2rad(l)))), 360)
	ra += math.Floor(l/90.0)*90.0 - math.Floor(ra/90.0)*90.0
	ra /= 15.0

	sinDec := 0.39782 * math.Sin(deg2rad(l))
	cosDec := math.Cos(math.Asin(sinDec))
	cosH := (math.Cos(deg2rad(zenith)) - sinDec*math.Sin(deg2rad(lat))) / (cosDec * math.Cos(deg2rad(lat)))
	if cosH > 1 || cosH < -1 {
		return time.Time{}, ErrPolar
	}

	h := rad2deg(math.Acos(cosH))
	if rising {
		h = 360 - h
	}
	h /= 15.0

	localT := h + ra - 0.06571*t - 6.622
	ut := normalize(localT-lngHour, 24)

	result := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).
		Add(time.Duration(ut * float64(time.Hour))).
		In(loc)

	// The UTC hour can belong to the neighbouring local day.
	y, mo, d := result.Date()
	got := time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
	want := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case got.Before(want):
		result = result.Add(24 * time.Hour)
	case got.After(want):
		result = result.Add(-24 * time.Hour)
	}
	return result, nil
}

// SynodicMonth is the mean length of a lunar cycle in days.
const SynodicMonth = 29.530588853

// newMoonEpoch is a reference new moon.
var newMoonEpoch = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// MoonPhase returns the position in the lunar cycle at t, from 0 (new)
// through 0.5 (full) back towards 1.
func MoonPhase(t time.Time) float64 {
	days := t.Sub(newMoonEpoch).Hours() / 24
	return normalize(days/SynodicMonth, 1)
}

// Illumination returns the lit fraction of the disc for a phase.
func Illumination(phase float64) float64 {
	return (1 - math.Cos(2*math.Pi*phase)) / 2
}

// PhaseName names a phase.
func PhaseName(phase float64) string {
	switch {
	case phase < 0.0339 || phase >= 0.9661:
		return "New moon"
	case phase < 0.216:
		return "Waxing crescent"
	case phase < 0.284:
		return "First quarter"
	case phase < 0.466:
		return "Waxing gibbous"
	case phase < 0.534:
		return "Full moon"
	case phase < 0.716:
		return "Waning gibbous"
	case phase < 0.784:
		return "Last quarter"
	default:
		return "Waning crescent"
	}
}

// Lit reports whether the point (x, y) of a disc of radius r centred on
// the origin is sunlit at phase. Waxing moons light up from the right as
// seen from the northern hemisphere.
func Lit(x, y, r, phase float64) bool {
	w := math.Sqrt(math.Max(r*r-y*y, 0))
	terminator := math.Cos(2*math.Pi*phase) * w
	if phase < 0.5 {
		return x > terminator
	}
	return x < -terminator
}

func deg2rad(v float64) float64 { return v * math.Pi / 180.0 }
func rad2deg(v float64) float64 { return v * 180.0 / math.Pi }

// normalize wraps v into [0, m).
func normalize(v, m float64) float64 {
	v = math.Mod(v, m)
	if v < 0 {
		v += m
	}
	return v
}
