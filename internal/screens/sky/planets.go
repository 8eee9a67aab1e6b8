package sky

import (
	"math"
	"time"
)

// obliquity of the ecliptic at J2000, in degrees.
const obliquity = 23.43928

// elements are Keplerian elements at J2000 with their rates per Julian
// century: semi-major axis (au), eccentricity, inclination, mean
// longitude, longitude of perihelion and longitude of the ascending node
// (degrees).
type elements struct {
	a, e, i, l, peri, node float64

	aRate, eRate, iRate, lRate, pRate, nRate float64
}

// Planet is a naked-eye planet.
type Planet struct {
	Name  string
	orbit elements
}

// earth holds the Earth-Moon barycentre.
var earth = elements{
	1.00000261, 0.01671123, -0.00001531, 100.46457166, 102.93768193, 0,
	0.00000562, -0.00004392, -0.01294668, 35999.37244981, 0.32327364, 0,
}

// Planets are the planets the chart marks, using the JPL approximate
// elements valid 1800-2050.
var Planets = []Planet{
	{"Mercury", elements{
		0.38709927, 0.20563593, 7.00497902, 252.25032350, 77.45779628, 48.33076593,
		0.00000037, 0.00001906, -0.00594749, 149472.67411175, 0.16047689, -0.12534081,
	}},
	{"Venus", elements{
		0.72333566, 0.00677672, 3.39467605, 181.97909950, 131.60246718, 76.67984255,
		0.00000390, -0.00004107, -0.00078890, 58517.81538729, 0.00268329, -0.27769418,
	}},
	{"Mars", elements{
		1.52371034, 0.09339410, 1.84969142, -4.55343205, -23.94362959, 49.55953891,
		0.00001847, 0.00007882, -0.00813131, 19140.30268499, 0.44441088, -0.29257343,
	}},
	{"Jupiter", elements{
		5.20288700, 0.04838624, 1.30439695, 34.39644051, 14.72847983, 100.47390909,
		-0.00011607, -0.00013253, -0.00183714, 3034.74612775, 0.21252668, 0.20469106,
	}},
	{"Saturn", elements{
		9.53667594, 0.05386179, 2.48599187, 49.95424423, 92.59887831, 113.66242448,
		-0.00125060, -0.00050991, 0.00193609, 1222.49362201, -0.41897216, -0.28867794,
	}},
}

// Equatorial returns the planet's geocentric right ascension and
// declination in degrees at t.
func (p Planet) Equatorial(t time.Time) (ra, dec float64) {
	c := centuries(t)
	px, py, pz := p.orbit.position(c)
	ex, ey, ez := earth.position(c)
	return equatorial(px-ex, py-ey, pz-ez)
}

// SunEquatorial returns the sun's right ascension and declination in
// degrees at t.
func SunEquatorial(t time.Time) (ra, dec float64) {
	ex, ey, ez := earth.position(centuries(t))
	return equatorial(-ex, -ey, -ez)
}

func centuries(t time.Time) float64 {
	return (JulianDate(t) - 2451545.0) / 36525
}

// position returns heliocentric ecliptic coordinates in au.
func (o elements) position(c float64) (x, y, z float64) {
	a := o.a + o.aRate*c
	e := o.e + o.eRate*c
	inc := deg2rad(o.i + o.iRate*c)
	l := o.l + o.lRate*c
	peri := o.peri + o.pRate*c
	node := o.node + o.nRate*c

	w := deg2rad(peri - node)
	m := deg2rad(normalize(l-peri+180, 360) - 180)
	n := deg2rad(node)

	ecc := kepler(m, e)
	xp := a * (math.Cos(ecc) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(ecc)

	cw, sw := math.Cos(w), math.Sin(w)
	cn, sn := math.Cos(n), math.Sin(n)
	ci, si := math.Cos(inc), math.Sin(inc)
	x = (cw*cn-sw*sn*ci)*xp + (-sw*cn-cw*sn*ci)*yp
	y = (cw*sn+sw*cn*ci)*xp + (-sw*sn+cw*cn*ci)*yp
	z = sw*si*xp + cw*si*yp
	return x, y, z
}

// kepler solves M = E - e sin E for the eccentric anomaly, in radians.
func kepler(m, e float64) float64 {
	ecc := m + e*math.Sin(m)
	for range 10 {
		d := (ecc - e*math.Sin(ecc) - m) / (1 - e*math.Cos(ecc))
		ecc -= d
		if math.Abs(d) < 1e-9 {
			break
		}
	}
	return ecc
}

// equatorial rotates ecliptic coordinates onto the equator and returns
// right ascension and declination in degrees.
func equatorial(x, y, z float64) (ra, dec float64) {
	eps := deg2rad(obliquity)
	ye := y*math.Cos(eps) - z*math.Sin(eps)
	ze := y*math.Sin(eps) + z*math.Cos(eps)
	ra = normalize(rad2deg(math.Atan2(ye, x)), 360)
	dec = rad2deg(math.Atan2(ze, math.Hypot(x, ye)))
	return ra, dec
}
