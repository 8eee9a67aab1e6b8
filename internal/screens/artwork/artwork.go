// Package artwork shows a full-panel painting or photograph from Wikimedia
// Commons, dithered for the e-ink panel, with a quote laid over a band at
// the bottom. Search keywords rotate between refreshes; when the search
// fails a short list of well-known paintings is used, then the last
// picture shown, then a drawn placeholder.
package artwork

import (
	"context"
	"image"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/ports/driven"
	"github.com/custodia-labs/inkdash/internal/logger"
	"github.com/custodia-labs/inkdash/internal/screens/canvas"
	"github.com/custodia-labs/inkdash/internal/screens/quotes"
)

const (
	// DefaultTimeout bounds each request, including the image download.
	DefaultTimeout = 20 * time.Second

	// MinFetchInterval is the closest two picture fetches may be.
	MinFetchInterval = time.Minute

	// quoteLines caps the quote so the picture keeps most of the panel.
	quoteLines = 2
)

// Keywords are searched in turn.
var Keywords = []string{
	"classical painting", "renaissance art", "baroque painting", "impressionist painting",
	"landscape painting", "portrait painting", "still life painting", "abstract art",
	"modern art", "woodblock print", "fine art photography", "architectural photography",
	"nature photography", "minimalist art", "museum artwork",
}

// FallbackImages are used when the search turns up nothing usable.
var FallbackImages = []string{
	"https://upload.wikimedia.org/wikipedia/commons/thumb/e/ea/Van_Gogh_-_Starry_Night_-_Google_Art_Project.jpg/640px-Van_Gogh_-_Starry_Night_-_Google_Art_Project.jpg",
	"https://upload.wikimedia.org/wikipedia/commons/thumb/0/0a/The_Great_Wave_off_Kanagawa.jpg/640px-The_Great_Wave_off_Kanagawa.jpg",
	"https://upload.wikimedia.org/wikipedia/commons/thumb/c/c5/Edvard_Munch%2C_1893%2C_The_Scream%2C_oil%2C_tempera_and_pastel_on_cardboard%2C_91_x_73_cm%2C_National_Gallery_of_Norway.jpg/640px-Edvard_Munch%2C_1893%2C_The_Scream%2C_oil%2C_tempera_and_pastel_on_cardboard%2C_91_x_73_cm%2C_National_Gallery_of_Norway.jpg",
}

// ArtQuotes are shown when the quote service is unreachable.
var ArtQuotes = []quotes.Quote{
	{Text: "Art enables us to find ourselves and lose ourselves at the same time.", Author: "Thomas Merton"},
	{Text: "Every artist was first an amateur.", Author: "Ralph Waldo Emerson"},
	{Text: "Art is not what you see, but what you make others see.", Author: "Edgar Degas"},
	{Text: "The purpose of art is washing the dust of daily life off our souls.", Author: "Pablo Picasso"},
	{Text: "Art should comfort the disturbed and disturb the comfortable.", Author: "Cesar A. Cruz"},
	{Text: "Creativity takes courage.", Author: "Henri Matisse"},
}

// QuoteSource supplies the overlay text. It must not fail.
type QuoteSource interface {
	Quote(ctx context.Context) quotes.Quote
}

// Screen renders artwork.
type Screen struct {
	bounds    image.Rectangle
	commons   *commons
	fallbacks []string
	quotes    QuoteSource
	limiter   *rate.Limiter
	now       func() time.Time

	mu      sync.Mutex
	last    *image.Gray
	keyword int
	pick    int
}

var _ driven.Screen = (*Screen)(nil)

// Option configures the screen.
type Option func(*Screen)

// WithEndpoint overrides the Commons API URL.
func WithEndpoint(url string) Option {
	return func(s *Screen) { s.commons.endpoint = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Screen) { s.commons.client = c }
}

// WithFallbackImages overrides the fallback picture URLs.
func WithFallbackImages(urls []string) Option {
	return func(s *Screen) { s.fallbacks = urls }
}

// WithQuotes overrides the quote source.
func WithQuotes(q QuoteSource) Option {
	return func(s *Screen) { s.quotes = q }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Screen) { s.now = now }
}

// New creates an artwork screen drawing into bounds. Quotes come from the
// quotes service with art quotes as the offline list.
func New(bounds image.Rectangle, opts ...Option) *Screen {
	s := &Screen{
		bounds:    bounds,
		commons:   &commons{endpoint: DefaultEndpoint, client: &http.Client{Timeout: DefaultTimeout}},
		fallbacks: FallbackImages,
		limiter:   rate.NewLimiter(rate.Every(MinFetchInterval), 1),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.quotes == nil {
		s.quotes = quotes.New(bounds, quotes.WithFallback(ArtQuotes))
	}
	return s
}

// Name returns the display name.
func (s *Screen) Name() string {
	return "Artwork"
}

// Render lays the quote over the current picture. It never fails.
func (s *Screen) Render(ctx context.Context) (domain.Frame, error) {
	art := s.picture(ctx)
	q := s.quotes.Quote(ctx)
	now := s.now()

	c := canvas.New(s.bounds)
	draw.Draw(c.Image(), c.Bounds(), art, art.Bounds().Min, draw.Src)
	overlay(c, q)

	return domain.Frame{ScreenID: domain.ScreenArtwork, Image: c.Image(), RenderedAt: now}, nil
}

// overlay draws the quote band along the bottom edge.
func overlay(c *canvas.Canvas, q quotes.Quote) {
	b := c.Bounds()
	margin := 4
	lines := canvas.Wrap(q.Text, (b.Dx()-2*margin)/canvas.CharWidth)
	if len(lines) > quoteLines {
		lines = lines[:quoteLines]
		last := strings.TrimRight(lines[quoteLines-1], " .,;:")
		lines[quoteLines-1] = trimTo(last, (b.Dx()-2*margin)/canvas.CharWidth-3) + "..."
	}

	height := (len(lines)+1)*canvas.LineHeight + 5
	top := b.Max.Y - height
	c.FillRect(b.Min.X, top, b.Max.X-1, b.Max.Y-1, canvas.White)
	c.Line(b.Min.X, top, b.Max.X-1, top, canvas.Black)

	y := top + 2
	cx := b.Min.X + b.Dx()/2
	for _, l := range lines {
		c.TextCentered(cx, y, l, canvas.Black)
		y += canvas.LineHeight
	}
	if q.Author != "" {
		c.TextRight(b.Max.X-margin, y, "- "+q.Author, canvas.Black)
	}
}

func trimTo(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimRight(string(r[:n]), " ")
}

// picture returns a fresh picture when allowed, else the last one, else
// the placeholder.
func (s *Screen) picture(ctx context.Context) *image.Gray {
	if s.limiter.Allow() {
		img, err := s.fetch(ctx)
		if err == nil {
			s.mu.Lock()
			s.last = img
			s.mu.Unlock()
			return img
		}
		logger.Warn("artwork: %v", err)
	} else {
		logger.Debug("artwork: throttled, reusing last picture")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last != nil {
		return s.last
	}
	return placeholder(s.bounds)
}

// fetch tries a Commons search, then each fallback picture.
func (s *Screen) fetch(ctx context.Context) (*image.Gray, error) {
	var firstErr error
	for _, url := range s.candidates(ctx) {
		img, err := s.commons.download(ctx, url)
		if err != nil {
			logger.Debug("artwork: %s: %v", url, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return Prepare(img, s.bounds), nil
	}
	if firstErr == nil {
		firstErr = errNoResults
	}
	return nil, firstErr
}

// candidates lists picture URLs to try in order.
func (s *Screen) candidates(ctx context.Context) []string {
	s.mu.Lock()
	keyword := Keywords[s.keyword%len(Keywords)]
	s.keyword++
	pick := s.pick
	s.pick++
	s.mu.Unlock()

	var urls []string
	titles, err := s.commons.search(ctx, keyword)
	if err == nil {
		// Thumbnails twice the panel width keep the download small.
		u, err := s.commons.imageURL(ctx, titles[pick%len(titles)], 2*s.bounds.Dx())
		if err == nil {
			urls = append(urls, u)
		} else {
			logger.Debug("artwork: %v", err)
		}
	} else {
		logger.Debug("artwork: %v", err)
	}

	for i := range s.fallbacks {
		urls = append(urls, s.fallbacks[(pick+i)%len(s.fallbacks)])
	}
	return urls
}
