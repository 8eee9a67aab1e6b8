// Package weather shows current conditions and a five day forecast from
// Open-Meteo, which needs no API key.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/logger"
	"github.com/custodia-labs/inkdash/internal/screens/canvas"
)

const (
	// DefaultEndpoint is the Open-Meteo forecast API.
	DefaultEndpoint = "https://api.open-meteo.com/v1/forecast"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second

	// MinFetchInterval is the closest two requests may be.
	MinFetchInterval = time.Minute

	// ForecastDays is how many days the forecast row shows.
	ForecastDays = 5
)

// ErrNoData is returned when nothing was ever fetched successfully.
var ErrNoData = errors.New("no weather data")

// Current is the current conditions.
type Current struct {
	Temperature float64
	WindSpeed   float64
	Code        int
	Time        string
}

// Day is one day of the forecast.
type Day struct {
	Date time.Time
	Max  float64
	Min  float64
	Code int
}

// Forecast is a parsed Open-Meteo response.
type Forecast struct {
	Current Current
	Days    []Day
}

// Screen renders the weather.
type Screen struct {
	bounds   image.Rectangle
	location domain.Location
	units    domain.Units
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	now      func() time.Time

	mu     sync.Mutex
	cached *Forecast
}

var _ driven.Screen = (*Screen)(nil)

// Option configures the screen.
type Option func(*Screen)

// WithEndpoint overrides the forecast API URL.
func WithEndpoint(url string) Option {
	return func(s *Screen) { s.endpoint = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Screen) { s.client = c }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Screen) { s.now = now }
}

// New creates a weather screen for a location.
func New(bounds image.Rectangle, loc domain.Location, units domain.Units, opts ...Option) *Screen {
	if !units.IsValid() {
		units = domain.UnitsImperial
	}
	s := &Screen{
		bounds:   bounds,
		location: loc,
		units:    units,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		limiter:  rate.NewLimiter(rate.Every(MinFetchInterval), 1),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the display name.
func (s *Screen) Name() string {
	return "Weather"
}

// Render fetches the forecast and lays it out. A failed fetch reuses the
// last good forecast; with nothing cached the render fails.
func (s *Screen) Render(ctx context.Context) (domain.Frame, error) {
	f, err := s.forecast(ctx)
	if err != nil {
		return domain.Frame{}, err
	}
	now := s.now()
	return domain.Frame{ScreenID: domain.ScreenWeather, Image: s.draw(f, now), RenderedAt: now}, nil
}

func (s *Screen) forecast(ctx context.Context) (Forecast, error) {
	var fetchErr error
	if s.limiter.Allow() {
		f, err := s.fetch(ctx)
		if err == nil {
			s.mu.Lock()
			s.cached = &f
			s.mu.Unlock()
			return f, nil
		}
		fetchErr = err
	} else {
		fetchErr = errors.New("throttled")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		return Forecast{}, fmt.Errorf("%w: %w", ErrNoData, fetchErr)
	}
	logger.Warn("weather: using cached forecast: %v", fetchErr)
	return *s.cached, nil
}

type currentWeather struct {
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	Weathercode int     `json:"weathercode"`
	Time        string  `json:"time"`
}

type apiResponse struct {
	CurrentWeather *currentWeather `json:"current_weather"`
	Daily          struct {
		Time        []string  `json:"time"`
		Max         []float64 `json:"temperature_2m_max"`
		Min         []float64 `json:"temperature_2m_min"`
		Weathercode []int     `json:"weathercode"`
	} `json:"daily"`
}

func (s *Screen) requestURL() string {
	tempUnit, windUnit := "fahrenheit", "mph"
	if s.units == domain.UnitsMetric {
		tempUnit, windUnit = "celsius", "kmh"
	}
	tz := s.location.Timezone
	if tz == "" {
		tz = "auto"
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(s.location.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(s.location.Longitude, 'f', 4, 64))
	q.Set("current_weather", "true")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,weathercode")
	q.Set("temperature_unit", tempUnit)
	q.Set("windspeed_unit", windUnit)
	q.Set("timezone", tz)
	q.Set("forecast_days", strconv.Itoa(ForecastDays))
	return s.endpoint + "?" + q.Encode()
}

func (s *Screen) fetch(ctx context.Context) (Forecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.requestURL(), nil)
	if err != nil {
		return Forecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Forecast{}, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Forecast{}, fmt.Errorf("fetch forecast: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Forecast{}, fmt.Errorf("decode forecast: %w", err)
	}
	return parse(payload)
}

func parse(p apiResponse) (Forecast, error) {
	if p.CurrentWeather == nil {
		return Forecast{}, errors.New("decode forecast: missing current_weather")
	}

	f := Forecast{Current: Current{
		Temperature: p.CurrentWeather.Temperature,
		WindSpeed:   p.CurrentWeather.Windspeed,
		Code:        p.CurrentWeather.Weathercode,
		Time:        p.CurrentWeather.Time,
	}}

	d := p.Daily
	n := min(len(d.Time), len(d.Max), len(d.Min), len(d.Weathercode), ForecastDays)
	for i := 0; i < n; i++ {
		date, err := time.Parse("2006-01-02", d.Time[i])
		if err != nil {
			return Forecast{}, fmt.Errorf("decode forecast: day %d: %w", i, err)
		}
		f.Days = append(f.Days, Day{Date: date, Max: d.Max[i], Min: d.Min[i], Code: d.Weathercode[i]})
	}
	return f, nil
}

func (s *Screen) draw(f Forecast, now time.Time) *image.Gray {
	c := canvas.New(s.bounds)
	b := c.Bounds()

	title := "Weather"
	if s.location.City != "" {
		title += "  " + s.location.City
	}
	top := c.Header(title, now.Format("15:04"))

	tempSuffix, windSuffix := "F", "mph"
	if s.units == domain.UnitsMetric {
		tempSuffix, windSuffix = "C", "km/h"
	}

	// Current conditions.
	drawIcon(c, b.Min.X+6, top+6, 28, f.Current.Code)
	x := b.Min.X + 44
	c.Text(x, top+4, fmt.Sprintf("%.0f%s", f.Current.Temperature, tempSuffix), canvas.Black)
	c.Text(x, top+4+canvas.LineHeight, Description(f.Current.Code), canvas.Black)
	c.Text(x, top+4+2*canvas.LineHeight, fmt.Sprintf("Wind %.0f %s", f.Current.WindSpeed, windSuffix), canvas.Black)

	divider := top + 4 + 3*canvas.LineHeight + 2
	c.Line(b.Min.X+2, divider, b.Max.X-3, divider, canvas.Black)

	// Forecast row.
	if len(f.Days) == 0 {
		c.TextCentered(b.Min.X+b.Dx()/2, divider+8, "no forecast", canvas.Black)
		return c.Image()
	}
	colWidth := b.Dx() / len(f.Days)
	for i, day := range f.Days {
		cx := b.Min.X + i*colWidth + colWidth/2
		y := divider + 3
		c.TextCentered(cx, y, day.Date.Format("Mon"), canvas.Black)
		drawIcon(c, cx-7, y+canvas.LineHeight+1, 14, day.Code)
		c.TextCentered(cx, y+canvas.LineHeight+17, fmt.Sprintf("%.0f/%.0f", day.Max, day.Min), canvas.Black)
	}
	return c.Image()
}

// drawIcon draws a small pictogram for a weather code in a size x size box.
func drawIcon(c *canvas.Canvas, x, y, size, code int) {
	r := size / 2
	cx, cy := x+r, y+r
	switch Kind(code) {
	case KindClear:
		c.Circle(cx, cy, r/2, canvas.Black, false)
		for a := 0; a < 360; a += 45 {
			rad := float64(a) * math.Pi / 180
			x0 := cx + int(float64(r/2+2)*math.Cos(rad))
			y0 := cy + int(float64(r/2+2)*math.Sin(rad))
			x1 := cx + int(float64(r)*math.Cos(rad))
			y1 := cy + int(float64(r)*math.Sin(rad))
			c.Line(x0, y0, x1, y1, canvas.Black)
		}
	case KindCloudy:
		cloud(c, x, y+r/2, size)
	case KindRain:
		cloud(c, x, y, size)
		for i := 1; i <= 3; i++ {
			dx := x + i*size/4
			c.Line(dx, y+r+2, dx-2, y+size, canvas.Black)
		}
	case KindSnow:
		cloud(c, x, y, size)
		for i := 1; i <= 3; i++ {
			c.Circle(x+i*size/4, y+r+r/2+1, 1, canvas.Black, true)
		}
	case KindStorm:
		cloud(c, x, y, size)
		c.Line(cx+2, y+r+1, cx-2, y+r+r/2, canvas.Black)
		c.Line(cx-2, y+r+r/2, cx+2, y+r+r/2, canvas.Black)
		c.Line(cx+2, y+r+r/2, cx-2, y+size, canvas.Black)
	default:
		c.TextCentered(cx, cy-canvas.LineHeight/2, "?", canvas.Black)
	}
}

// cloud draws a filled cloud in the upper half of a size x size box.
func cloud(c *canvas.Canvas, x, y, size int) {
	r := size / 4
	c.Circle(x+r, y+2*r-1, r, canvas.Black, true)
	c.Circle(x+2*r, y+r+1, r+1, canvas.Black, true)
	c.Circle(x+3*r, y+2*r-1, r, canvas.Black, true)
	c.FillRect(x+r, y+r+1, x+3*r, y+3*r-2, canvas.Black)
}
