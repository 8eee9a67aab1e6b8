package quotes

import (
	"context"
	"image"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

var panel = image.Rect(0, 0, 250, 122)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestScreen_RendersFetchedQuote(t *testing.T) {
	srv, hits := newServer(t, http.StatusOK, `[{"q":"Stay hungry.","a":"Someone","h":""}]`)
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New(panel, WithEndpoint(srv.URL), WithClock(func() time.Time { return at }))

	frame, err := s.Render(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.ScreenQuotes, frame.ScreenID)
	assert.Equal(t, panel, frame.Image.Bounds())
	assert.Equal(t, at, frame.RenderedAt)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, &Quote{Text: "Stay hungry.", Author: "Someone"}, s.last)
}

func TestScreen_FallsBackOnError(t *testing.T) {
	srv, _ := newServer(t, http.StatusTooManyRequests, `slow down`)
	s := New(panel, WithEndpoint(srv.URL))

	frame, err := s.Render(context.Background())

	require.NoError(t, err)
	assert.False(t, frame.IsEmpty())
	assert.Nil(t, s.last)
	assert.Equal(t, 1, s.fallback)
}

func TestScreen_ThrottledReusesLastQuote(t *testing.T) {
	srv, hits := newServer(t, http.StatusOK, `[{"q":"Once.","a":""}]`)
	s := New(panel, WithEndpoint(srv.URL))

	_, err := s.Render(context.Background())
	require.NoError(t, err)
	_, err = s.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "Unknown", s.last.Author)
}

func TestScreen_FallbackRotates(t *testing.T) {
	s := New(panel, WithEndpoint("http://127.0.0.1:1"))
	s.limiter = rate.NewLimiter(0, 0)

	first := s.Quote(context.Background())
	second := s.Quote(context.Background())

	assert.Equal(t, fallbackQuotes[0], first)
	assert.Equal(t, fallbackQuotes[1], second)
}

func TestWithFallback(t *testing.T) {
	own := []Quote{{"Art is long.", "Hippocrates"}}
	s := New(panel, WithEndpoint("http://127.0.0.1:1"), WithFallback(own))
	s.limiter = rate.NewLimiter(0, 0)

	assert.Equal(t, own[0], s.Quote(context.Background()))
	assert.Equal(t, own[0], s.Quote(context.Background()))

	empty := New(panel, WithFallback(nil))
	assert.Equal(t, fallbackQuotes, empty.fallbacks)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusInternalServerError, "boom"},
		{"bad json", http.StatusOK, "{"},
		{"empty list", http.StatusOK, "[]"},
		{"blank quote", http.StatusOK, `[{"q":"  ","a":"x"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			s := New(panel, WithEndpoint(srv.URL))

			_, err := s.fetch(context.Background())

			assert.Error(t, err)
		})
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Quotes", New(panel).Name())
}
