// Package sky shows a star chart of the sky overhead with constellation
// figures and the planets above the horizon, next to today's sunrise and
// sunset and the phase of the moon. Everything is computed locally.
package sky

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/logger"
	"github.com/custodia-labs/inkdash/internal/screens/canvas"
)

// Screen renders the sky view.
type Screen struct {
	bounds   image.Rectangle
	location domain.Location
	tz       *time.Location
	now      func() time.Time
}

var _ driven.Screen = (*Screen)(nil)

// Option configures the screen.
type Option func(*Screen)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Screen) { s.now = now }
}

// New creates a sky screen. An unknown timezone falls back to local time.
func New(bounds image.Rectangle, loc domain.Location, opts ...Option) *Screen {
	tz := time.Local
	if loc.Timezone != "" {
		if l, err := time.LoadLocation(loc.Timezone); err == nil {
			tz = l
		} else {
			logger.Warn("sky: timezone %q: %v, using local time", loc.Timezone, err)
		}
	}
	s := &Screen{bounds: bounds, location: loc, tz: tz, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the display name.
func (s *Screen) Name() string {
	return "Sky"
}

// Day is the computed sky state for a moment.
type Day struct {
	Now     time.Time
	Sunrise time.Time
	Sunset  time.Time

	// Polar is set when the sun does not rise or set today.
	// Up tells which: true for midnight sun.
	Polar bool
	Up    bool

	Phase float64

	// Sidereal is the local sidereal time in degrees.
	Sidereal float64
	// Bodies are the planets above the horizon.
	Bodies []Body
}

// Body is a planet placed in the observer's sky.
type Body struct {
	Name string
	Alt  float64
	Az   float64
}

// Compute works out the sky state at now.
func (s *Screen) Compute(now time.Time) Day {
	now = now.In(s.tz)
	d := Day{Now: now, Phase: MoonPhase(now), Sidereal: SiderealTime(now, s.location.Longitude)}
	for _, p := range Planets {
		ra, dec := p.Equatorial(now)
		alt, az := Horizontal(ra, dec, s.location.Latitude, d.Sidereal)
		if alt > 0 {
			d.Bodies = append(d.Bodies, Body{Name: p.Name, Alt: alt, Az: az})
		}
	}

	rise, rerr := Sunrise(now, s.location.Latitude, s.location.Longitude, s.tz)
	set, serr := Sunset(now, s.location.Latitude, s.location.Longitude, s.tz)
	if errors.Is(rerr, ErrPolar) || errors.Is(serr, ErrPolar) {
		d.Polar = true
		// Summer in the hemisphere means the sun stays up.
		north := s.location.Latitude >= 0
		summer := now.Month() >= time.April && now.Month() <= time.September
		d.Up = north == summer
		return d
	}
	d.Sunrise, d.Sunset = rise, set
	return d
}

// Render draws the sky view. It never fails.
func (s *Screen) Render(_ context.Context) (domain.Frame, error) {
	now := s.now()
	d := s.Compute(now)
	return domain.Frame{ScreenID: domain.ScreenSky, Image: s.draw(d), RenderedAt: now}, nil
}

func (s *Screen) draw(d Day) *image.Gray {
	c := canvas.New(s.bounds)
	b := c.Bounds()

	title := "Sky"
	if s.location.City != "" {
		title += "  " + s.location.City
	}
	top := c.Header(title, d.Now.Format("Mon 2 Jan 15:04"))

	r := (b.Max.Y-top)/2 - 2
	chart := image.Pt(b.Min.X+r+3, top+2+r)
	s.drawChart(c, d, chart, r)
	s.drawInfo(c, d, image.Rect(chart.X+r+7, top, b.Max.X, b.Max.Y))
	return c.Image()
}

// project maps altitude and azimuth onto a chart of radius r centred on
// the zenith, north up and east to the left as seen looking up.
func project(centre image.Point, r int, alt, az float64) image.Point {
	dist := float64(r) * (90 - alt) / 90
	return image.Pt(
		centre.X-int(math.Round(dist*math.Sin(deg2rad(az)))),
		centre.Y-int(math.Round(dist*math.Cos(deg2rad(az)))),
	)
}

func (s *Screen) drawChart(c *canvas.Canvas, d Day, centre image.Point, r int) {
	c.Circle(centre.X, centre.Y, r, canvas.Black, true)
	lat := s.location.Latitude

	place := func(st Star) (image.Point, bool) {
		alt, az := Horizontal(st.RA, st.Dec, lat, d.Sidereal)
		return project(centre, r, alt, az), alt > 0
	}

	for _, f := range Figures {
		for _, seg := range f.Lines {
			a, aok := StarByName(seg[0])
			b, bok := StarByName(seg[1])
			if !aok || !bok {
				continue
			}
			pa, upA := place(a)
			pb, upB := place(b)
			if upA && upB {
				c.Dotted(pa.X, pa.Y, pb.X, pb.Y, canvas.White)
			}
		}
	}

	for _, st := range Stars {
		p, up := place(st)
		if !up {
			continue
		}
		switch {
		case st.Mag < 0.5:
			c.Circle(p.X, p.Y, 2, canvas.White, true)
		case st.Mag < 1.5:
			c.Set(p.X, p.Y, canvas.White)
			c.Set(p.X-1, p.Y, canvas.White)
			c.Set(p.X+1, p.Y, canvas.White)
			c.Set(p.X, p.Y-1, canvas.White)
			c.Set(p.X, p.Y+1, canvas.White)
		default:
			c.Set(p.X, p.Y, canvas.White)
		}
	}

	// Planets are rings so they stand apart from the stars.
	for _, body := range d.Bodies {
		p := project(centre, r, body.Alt, body.Az)
		c.Circle(p.X, p.Y, 3, canvas.White, false)
	}

	c.Text(centre.X-canvas.CharWidth/2, centre.Y-r+1, "N", canvas.White)
	c.Text(centre.X-r+2, centre.Y-canvas.LineHeight/2, "E", canvas.White)
	c.Text(centre.X+r-canvas.CharWidth-1, centre.Y-canvas.LineHeight/2, "W", canvas.White)
	c.Text(centre.X-canvas.CharWidth/2, centre.Y+r-canvas.LineHeight, "S", canvas.White)
}

func (s *Screen) drawInfo(c *canvas.Canvas, d Day, area image.Rectangle) {
	x := area.Min.X
	y := area.Min.Y + 2

	switch {
	case d.Polar && d.Up:
		c.Text(x, y, "Sun up all day", canvas.Black)
		y += canvas.LineHeight
	case d.Polar:
		c.Text(x, y, "Sun down all day", canvas.Black)
		y += canvas.LineHeight
	default:
		c.Text(x, y, "Sun "+d.Sunrise.Format("15:04")+"-"+d.Sunset.Format("15:04"), canvas.Black)
		y += canvas.LineHeight
		c.Text(x, y, "Day "+formatDuration(d.Sunset.Sub(d.Sunrise)), canvas.Black)
		y += canvas.LineHeight
	}

	y += 2
	mr := canvas.LineHeight - 3
	s.drawMoon(c, d, image.Pt(x+mr, y+mr), mr)
	c.Text(x+2*mr+5, y, PhaseName(d.Phase), canvas.Black)
	c.Text(x+2*mr+5, y+canvas.LineHeight, fmt.Sprintf("%.0f%% lit", Illumination(d.Phase)*100), canvas.Black)
	y += 2*canvas.LineHeight + 2

	lst := time.Duration(d.Sidereal / 15 * float64(time.Hour))
	c.Text(x, y, fmt.Sprintf("LST %02d:%02d", int(lst.Hours()), int(lst.Minutes())%60), canvas.Black)
	y += canvas.LineHeight

	if len(d.Bodies) == 0 {
		c.Text(x, y, "No planets up", canvas.Black)
		return
	}
	names := make([]string, len(d.Bodies))
	for i, body := range d.Bodies {
		names[i] = body.Name
	}
	c.Paragraph(x, y, area.Max.X-x-2, (area.Max.Y-y)/canvas.LineHeight, "Up: "+strings.Join(names, " "), canvas.Black)
}

func (s *Screen) drawMoon(c *canvas.Canvas, d Day, centre image.Point, r int) {
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y > r*r {
				continue
			}
			if !Lit(float64(x), float64(y), float64(r), d.Phase) {
				c.Set(centre.X+x, centre.Y+y, canvas.Black)
			}
		}
	}
	c.Circle(centre.X, centre.Y, r, canvas.Black, false)
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
