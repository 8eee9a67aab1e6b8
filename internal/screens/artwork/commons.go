package artwork

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	// Decoders for the formats Commons serves.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// DefaultEndpoint is the Wikimedia Commons API.
const DefaultEndpoint = "https://commons.wikimedia.org/w/api.php"

// userAgent identifies requests as Wikimedia asks API clients to.
const userAgent = "inkdash/1.0 (e-ink dashboard)"

// maxImageBytes bounds a downloaded image.
const maxImageBytes = 20 << 20

// errNoResults is returned when a search matches no files.
var errNoResults = errors.New("no results")

// commons queries the Wikimedia Commons file namespace.
type commons struct {
	endpoint string
	client   *http.Client
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type imageInfoResponse struct {
	Query struct {
		Pages map[string]struct {
			ImageInfo []struct {
				URL      string `json:"url"`
				ThumbURL string `json:"thumburl"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// search returns file titles matching keyword.
func (c *commons) search(ctx context.Context, keyword string) ([]string, error) {
	q := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"list":        {"search"},
		"srsearch":    {keyword + " filetype:bitmap"},
		"srnamespace": {"6"},
		"srlimit":     {"20"},
	}
	var resp searchResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}
	titles := make([]string, 0, len(resp.Query.Search))
	for _, r := range resp.Query.Search {
		if r.Title != "" {
			titles = append(titles, r.Title)
		}
	}
	if len(titles) == 0 {
		return nil, fmt.Errorf("search %q: %w", keyword, errNoResults)
	}
	return titles, nil
}

// imageURL resolves a file title to a download URL, preferring a
// thumbnail scaled to width.
func (c *commons) imageURL(ctx context.Context, title string, width int) (string, error) {
	q := url.Values{
		"action":     {"query"},
		"format":     {"json"},
		"titles":     {title},
		"prop":       {"imageinfo"},
		"iiprop":     {"url"},
		"iiurlwidth": {strconv.Itoa(width)},
	}
	var resp imageInfoResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return "", fmt.Errorf("image info %q: %w", title, err)
	}
	for _, page := range resp.Query.Pages {
		for _, info := range page.ImageInfo {
			if info.ThumbURL != "" {
				return info.ThumbURL, nil
			}
			if info.URL != "" {
				return info.URL, nil
			}
		}
	}
	return "", fmt.Errorf("image info %q: %w", title, errNoResults)
}

func (c *commons) get(ctx context.Context, q url.Values, out any) error {
	resp, err := c.do(ctx, c.endpoint+"?"+q.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// download fetches and decodes an image.
func (c *commons) download(ctx context.Context, rawURL string) (image.Image, error) {
	resp, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func (c *commons) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		resp.Body.Close()
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}
