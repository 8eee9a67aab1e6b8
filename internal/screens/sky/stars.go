package sky

import (
	"math"
	"time"
)

// Star is a catalog entry with J2000 coordinates in degrees.
type Star struct {
	Name string
	RA   float64
	Dec  float64
	Mag  float64
}

// Stars holds the bright stars drawn on the chart, including every star
// a figure refers to.
var Stars = []Star{
	{"Sirius", 101.287, -16.716, -1.46},
	{"Canopus", 95.988, -52.696, -0.74},
	{"Arcturus", 213.915, 19.182, -0.05},
	{"Vega", 279.235, 38.784, 0.03},
	{"Capella", 79.172, 45.998, 0.08},
	{"Rigel", 78.634, -8.202, 0.13},
	{"Procyon", 114.825, 5.225, 0.34},
	{"Betelgeuse", 88.793, 7.407, 0.50},
	{"Altair", 297.696, 8.868, 0.77},
	{"Aldebaran", 68.980, 16.509, 0.85},
	{"Antares", 247.352, -26.432, 0.96},
	{"Spica", 201.298, -11.161, 0.97},
	{"Pollux", 116.329, 28.026, 1.14},
	{"Fomalhaut", 344.413, -29.622, 1.16},
	{"Deneb", 310.358, 45.280, 1.25},
	{"Regulus", 152.093, 11.967, 1.35},
	{"Castor", 113.650, 31.888, 1.58},
	{"Bellatrix", 81.283, 6.350, 1.64},
	{"Alnilam", 84.053, -1.202, 1.69},
	{"Alnitak", 85.190, -1.943, 1.77},
	{"Mintaka", 83.002, -0.299, 2.23},
	{"Saiph", 86.939, -9.670, 2.06},
	{"Polaris", 37.955, 89.264, 1.98},

	{"Dubhe", 165.932, 61.751, 1.79},
	{"Merak", 165.460, 56.383, 2.37},
	{"Phecda", 178.458, 53.695, 2.44},
	{"Megrez", 183.857, 57.033, 3.31},
	{"Alioth", 193.507, 55.960, 1.77},
	{"Mizar", 200.981, 54.925, 2.27},
	{"Alkaid", 206.885, 49.313, 1.86},

	{"Caph", 2.295, 59.150, 2.27},
	{"Schedar", 10.127, 56.537, 2.24},
	{"Gamma Cas", 14.177, 60.717, 2.47},
	{"Ruchbah", 21.454, 60.235, 2.68},
	{"Segin", 28.599, 63.670, 3.37},

	{"Sadr", 305.557, 40.257, 2.23},
	{"Albireo", 292.680, 27.960, 3.05},
	{"Gienah", 311.553, 33.970, 2.48},
	{"Fawaris", 296.244, 45.131, 2.87},

	{"Algieba", 154.993, 19.842, 2.08},
	{"Denebola", 177.265, 14.572, 2.13},
	{"Zosma", 168.527, 20.524, 2.56},
	{"Chertan", 168.560, 15.430, 3.33},
	{"Adhafera", 154.173, 23.417, 3.43},
	{"Ras Elased", 146.463, 23.774, 2.98},
	{"Eta Leo", 151.833, 16.763, 3.49},

	{"Acrab", 241.359, -19.806, 2.62},
	{"Dschubba", 240.083, -22.622, 2.29},
	{"Tau Sco", 248.971, -28.216, 2.82},
	{"Larawag", 252.541, -34.293, 2.29},
	{"Mu Sco", 252.968, -38.048, 3.00},
	{"Eta Sco", 258.038, -43.239, 3.33},
	{"Sargas", 264.330, -42.998, 1.86},
	{"Kappa Sco", 265.622, -39.030, 2.39},
	{"Shaula", 263.402, -37.104, 1.62},
}

// Figure is a constellation drawn as segments between named stars.
type Figure struct {
	Name  string
	Lines [][2]string
}

// Figures are the constellations the chart connects.
var Figures = []Figure{
	{"Ursa Major", [][2]string{
		{"Dubhe", "Merak"}, {"Merak", "Phecda"}, {"Phecda", "Megrez"}, {"Megrez", "Dubhe"},
		{"Megrez", "Alioth"}, {"Alioth", "Mizar"}, {"Mizar", "Alkaid"},
	}},
	{"Cassiopeia", [][2]string{
		{"Caph", "Schedar"}, {"Schedar", "Gamma Cas"}, {"Gamma Cas", "Ruchbah"}, {"Ruchbah", "Segin"},
	}},
	{"Orion", [][2]string{
		{"Betelgeuse", "Bellatrix"}, {"Bellatrix", "Mintaka"}, {"Betelgeuse", "Alnitak"},
		{"Mintaka", "Alnilam"}, {"Alnilam", "Alnitak"}, {"Mintaka", "Rigel"}, {"Alnitak", "Saiph"},
	}},
	{"Leo", [][2]string{
		{"Regulus", "Eta Leo"}, {"Eta Leo", "Algieba"}, {"Algieba", "Adhafera"}, {"Adhafera", "Ras Elased"},
		{"Algieba", "Zosma"}, {"Zosma", "Denebola"}, {"Denebola", "Chertan"}, {"Chertan", "Regulus"},
	}},
	{"Cygnus", [][2]string{
		{"Deneb", "Sadr"}, {"Sadr", "Albireo"}, {"Gienah", "Sadr"}, {"Sadr", "Fawaris"},
	}},
	{"Scorpius", [][2]string{
		{"Acrab", "Dschubba"}, {"Dschubba", "Antares"}, {"Antares", "Tau Sco"}, {"Tau Sco", "Larawag"},
		{"Larawag", "Mu Sco"}, {"Mu Sco", "Eta Sco"}, {"Eta Sco", "Sargas"}, {"Sargas", "Kappa Sco"},
		{"Kappa Sco", "Shaula"},
	}},
	{"Gemini", [][2]string{{"Castor", "Pollux"}}},
	{"Summer Triangle", [][2]string{{"Vega", "Deneb"}, {"Deneb", "Altair"}, {"Altair", "Vega"}}},
}

// StarByName looks up a catalog star.
func StarByName(name string) (Star, bool) {
	for _, s := range Stars {
		if s.Name == name {
			return s, true
		}
	}
	return Star{}, false
}

// JulianDate returns the Julian date of t.
func JulianDate(t time.Time) float64 {
	return float64(t.UTC().UnixNano())/float64(24*time.Hour) + 2440587.5
}

// SiderealTime returns the local mean sidereal time in degrees at
// longitude lon (east positive).
func SiderealTime(t time.Time, lon float64) float64 {
	jd := JulianDate(t)
	c := (jd - 2451545.0) / 36525
	gmst := 280.46061837 + 360.98564736629*(jd-2451545.0) + 0.000387933*c*c - c*c*c/38710000
	return normalize(gmst+lon, 360)
}

// Horizontal converts equatorial coordinates to altitude and azimuth for
// an observer at latitude lat under local sidereal time lst. Azimuth runs
// from north through east. All values are degrees.
func Horizontal(ra, dec, lat, lst float64) (alt, az float64) {
	h := deg2rad(lst - ra)
	d := deg2rad(dec)
	p := deg2rad(lat)

	sinAlt := math.Sin(d)*math.Sin(p) + math.Cos(d)*math.Cos(p)*math.Cos(h)
	alt = rad2deg(math.Asin(math.Max(-1, math.Min(1, sinAlt))))
	az = rad2deg(math.Atan2(-math.Cos(d)*math.Sin(h), math.Sin(d)*math.Cos(p)-math.Cos(d)*math.Sin(p)*math.Cos(h)))
	return alt, normalize(az, 360)
}
