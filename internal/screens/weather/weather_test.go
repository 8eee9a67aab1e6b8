package weather

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

var panel = image.Rect(0, 0, 250, 122)

const sample = `{
  "latitude": 33.45,
  "longitude": -112.07,
  "current_weather": {"temperature": 84.6, "windspeed": 7.9, "weathercode": 2, "time": "2025-06-01T14:00"},
  "daily": {
    "time": ["2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05"],
    "temperature_2m_max": [101.2, 103.0, 99.5, 97.1, 100.4],
    "temperature_2m_min": [78.0, 80.1, 77.3, 75.0, 76.8],
    "weathercode": [0, 1, 61, 95, 71]
  }
}`

type server struct {
	*httptest.Server
	hits   atomic.Int32
	status atomic.Int32
	query  atomic.Value
}

func newServer(t *testing.T) *server {
	t.Helper()
	s := &server{}
	s.status.Store(http.StatusOK)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		s.query.Store(r.URL.Query())
		w.WriteHeader(int(s.status.Load()))
		_, _ = w.Write([]byte(sample))
	}))
	t.Cleanup(s.Close)
	return s
}

func testLocation() domain.Location {
	return domain.DefaultDashboardConfig().Location
}

func TestScreen_Render(t *testing.T) {
	srv := newServer(t)
	at := time.Date(2025, 6, 1, 14, 5, 0, 0, time.UTC)
	s := New(panel, testLocation(), domain.UnitsImperial, WithEndpoint(srv.URL), WithClock(func() time.Time { return at }))

	frame, err := s.Render(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ScreenWeather, frame.ScreenID)
	assert.Equal(t, panel, frame.Image.Bounds())
	assert.Equal(t, at, frame.RenderedAt)

	q := srv.query.Load().(url.Values)
	assert.Equal(t, "33.4484", q.Get("latitude"))
	assert.Equal(t, "-112.0740", q.Get("longitude"))
	assert.Equal(t, "true", q.Get("current_weather"))
	assert.Equal(t, "fahrenheit", q.Get("temperature_unit"))
	assert.Equal(t, "mph", q.Get("windspeed_unit"))
	assert.Equal(t, "America/Phoenix", q.Get("timezone"))
	assert.Equal(t, "5", q.Get("forecast_days"))
}

func TestScreen_MetricUnits(t *testing.T) {
	srv := newServer(t)
	loc := testLocation()
	loc.Timezone = ""
	s := New(panel, loc, domain.UnitsMetric, WithEndpoint(srv.URL))

	_, err := s.Render(context.Background())

	require.NoError(t, err)
	q := srv.query.Load().(url.Values)
	assert.Equal(t, "celsius", q.Get("temperature_unit"))
	assert.Equal(t, "kmh", q.Get("windspeed_unit"))
	assert.Equal(t, "auto", q.Get("timezone"))
}

func TestScreen_FailsWithoutCache(t *testing.T) {
	srv := newServer(t)
	srv.status.Store(http.StatusServiceUnavailable)
	s := New(panel, testLocation(), domain.UnitsImperial, WithEndpoint(srv.URL))

	_, err := s.Render(context.Background())

	assert.ErrorIs(t, err, ErrNoData)
}

func TestScreen_UsesCacheOnFailure(t *testing.T) {
	srv := newServer(t)
	s := New(panel, testLocation(), domain.UnitsImperial, WithEndpoint(srv.URL))
	_, err := s.Render(context.Background())
	require.NoError(t, err)

	srv.status.Store(http.StatusInternalServerError)
	s.limiter = rate.NewLimiter(rate.Inf, 1)

	frame, err := s.Render(context.Background())

	require.NoError(t, err)
	assert.False(t, frame.IsEmpty())
	assert.Equal(t, int32(2), srv.hits.Load())
}

func TestScreen_ThrottledUsesCache(t *testing.T) {
	srv := newServer(t)
	s := New(panel, testLocation(), domain.UnitsImperial, WithEndpoint(srv.URL))

	_, err := s.Render(context.Background())
	require.NoError(t, err)
	_, err = s.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), srv.hits.Load())
}

func TestFetch_Parses(t *testing.T) {
	srv := newServer(t)
	s := New(panel, testLocation(), domain.UnitsImperial, WithEndpoint(srv.URL))

	f, err := s.fetch(context.Background())

	require.NoError(t, err)
	assert.InDelta(t, 84.6, f.Current.Temperature, 1e-9)
	assert.Equal(t, 2, f.Current.Code)
	require.Len(t, f.Days, 5)
	assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), f.Days[2].Date)
	assert.Equal(t, 61, f.Days[2].Code)
	assert.InDelta(t, 103.0, f.Days[1].Max, 1e-9)
}

func TestParse_Errors(t *testing.T) {
	_, err := parse(apiResponse{})
	assert.Error(t, err)

	var p apiResponse
	p.CurrentWeather = &currentWeather{}
	p.Daily.Time = []string{"June 1"}
	p.Daily.Max = []float64{1}
	p.Daily.Min = []float64{0}
	p.Daily.Weathercode = []int{0}
	_, err = parse(p)
	assert.Error(t, err)
}

func TestParse_RaggedDailyArrays(t *testing.T) {
	var p apiResponse
	p.CurrentWeather = &currentWeather{}
	p.Daily.Time = []string{"2025-06-01", "2025-06-02"}
	p.Daily.Max = []float64{1}
	p.Daily.Min = []float64{0, 0}
	p.Daily.Weathercode = []int{0, 0}

	f, err := parse(p)

	require.NoError(t, err)
	assert.Len(t, f.Days, 1)
}

func TestDraw_NoForecastDays(t *testing.T) {
	s := New(panel, testLocation(), domain.UnitsImperial)

	img := s.draw(Forecast{Current: Current{Code: 999}}, time.Now())

	assert.Equal(t, panel, img.Bounds())
}

func TestDescriptionAndKind(t *testing.T) {
	tests := []struct {
		code int
		desc string
		kind IconKind
	}{
		{0, "Clear sky", KindClear},
		{3, "Overcast", KindCloudy},
		{45, "Fog", KindCloudy},
		{63, "Rain", KindRain},
		{81, "Rain showers", KindRain},
		{75, "Heavy snow", KindSnow},
		{86, "Snow showers", KindSnow},
		{95, "Thunderstorm", KindStorm},
		{42, "Unknown", KindUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.desc, Description(tt.code), "code %d", tt.code)
		assert.Equal(t, tt.kind, Kind(tt.code), "code %d", tt.code)
	}
}
