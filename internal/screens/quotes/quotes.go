// Package quotes shows a quote of the moment from zenquotes.io.
// When the service is unreachable or throttled the screen falls back to
// the last fetched quote, then to a built-in list.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
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
	// DefaultEndpoint returns one random quote per request.
	DefaultEndpoint = "https://zenquotes.io/api/random"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 15 * time.Second

	// MinFetchInterval is the closest two requests may be.
	// zenquotes allows a handful of requests per 30 seconds per client.
	MinFetchInterval = 10 * time.Second
)

// Quote is a quote and its author.
type Quote struct {
	Text   string
	Author string
}

// Screen renders quotes.
type Screen struct {
	bounds   image.Rectangle
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	now      func() time.Time

	mu        sync.Mutex
	last      *Quote
	fallbacks []Quote
	fallback  int
}

var _ driven.Screen = (*Screen)(nil)

// Option configures the screen.
type Option func(*Screen)

// WithEndpoint overrides the quote service URL.
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

// WithFallback replaces the built-in offline quotes. Empty lists are
// ignored.
func WithFallback(qs []Quote) Option {
	return func(s *Screen) {
		if len(qs) > 0 {
			s.fallbacks = qs
		}
	}
}

// New creates a quotes screen drawing into bounds.
func New(bounds image.Rectangle, opts ...Option) *Screen {
	s := &Screen{
		bounds:    bounds,
		endpoint:  DefaultEndpoint,
		client:    &http.Client{Timeout: DefaultTimeout},
		limiter:   rate.NewLimiter(rate.Every(MinFetchInterval), 1),
		now:       time.Now,
		fallbacks: fallbackQuotes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the display name.
func (s *Screen) Name() string {
	return "Quotes"
}

// Render fetches a quote and lays it out.
func (s *Screen) Render(ctx context.Context) (domain.Frame, error) {
	q := s.Quote(ctx)
	now := s.now()

	c := canvas.New(s.bounds)
	b := c.Bounds()
	top := c.Header("Quote", now.Format("Mon 2 Jan"))

	margin := 6
	author := "- " + q.Author
	bottom := b.Max.Y - canvas.LineHeight - 3
	maxLines := (bottom - top - 4) / canvas.LineHeight
	c.Paragraph(b.Min.X+margin, top+4, b.Dx()-2*margin, maxLines, q.Text, canvas.Black)
	c.Line(b.Max.X-margin-canvas.Measure(author), bottom-2, b.Max.X-margin, bottom-2, canvas.Black)
	c.TextRight(b.Max.X-margin, bottom, author, canvas.Black)

	return domain.Frame{ScreenID: domain.ScreenQuotes, Image: c.Image(), RenderedAt: now}, nil
}

// Quote returns a fresh quote when allowed, else the last fetched one,
// else the next offline quote. It never fails.
func (s *Screen) Quote(ctx context.Context) Quote {
	if s.limiter.Allow() {
		q, err := s.fetch(ctx)
		if err == nil {
			s.mu.Lock()
			s.last = &q
			s.mu.Unlock()
			return q
		}
		logger.Warn("quotes: %v", err)
	} else {
		logger.Debug("quotes: throttled, reusing last quote")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil {
		return *s.last
	}
	q := s.fallbacks[s.fallback%len(s.fallbacks)]
	s.fallback++
	return q
}

type zenQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
}

func (s *Screen) fetch(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return Quote{}, fmt.Errorf("fetch quote: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload []zenQuote
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, fmt.Errorf("decode quote: %w", err)
	}
	if len(payload) == 0 || strings.TrimSpace(payload[0].Q) == "" {
		return Quote{}, fmt.Errorf("decode quote: empty response")
	}

	q := Quote{Text: strings.TrimSpace(payload[0].Q), Author: strings.TrimSpace(payload[0].A)}
	if q.Author == "" {
		q.Author = "Unknown"
	}
	return q, nil
}

var fallbackQuotes = []Quote{
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"Life is what happens to you while you're busy making other plans.", "John Lennon"},
	{"The future belongs to those who believe in the beauty of their dreams.", "Eleanor Roosevelt"},
	{"It is during our darkest moments that we must focus to see the light.", "Aristotle"},
	{"The way to get started is to quit talking and begin doing.", "Walt Disney"},
	{"Don't let yesterday take up too much of today.", "Will Rogers"},
	{"Success is not final, failure is not fatal: it is the courage to continue that counts.", "Winston Churchill"},
	{"In the middle of difficulty lies opportunity.", "Albert Einstein"},
	{"Believe you can and you're halfway there.", "Theodore Roosevelt"},
	{"The greatest glory in living lies not in never falling, but in rising every time we fall.", "Nelson Mandela"},
}
