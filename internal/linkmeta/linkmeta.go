// Package linkmeta fetches Open Graph metadata for link previews.
package linkmeta

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// fetchTimeout bounds the outbound request; on expiry the post is saved
// without a preview rather than failing.
const fetchTimeout = 5 * time.Second

// Preview is the subset of Open Graph metadata stored on a post.
type Preview struct {
	URL         string
	Title       string
	Description string
	Image       string
}

// Fetcher resolves link previews. Implementations must be safe for
// concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Preview, error)
}

type httpFetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher backed by an HTTP client with a fixed timeout.
func NewFetcher() Fetcher {
	return &httpFetcher{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) (*Preview, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "ripple-linkpreview/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("link preview fetch returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return nil, fmt.Errorf("link preview fetch returned non-HTML content type %q", ct)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	return ParseDocument(url, doc), nil
}

// ParseDocument extracts og: tags from a parsed HTML document, falling back
// to the <title> element and meta description.
func ParseDocument(url string, doc *goquery.Document) *Preview {
	preview := &Preview{URL: url}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		if prop == "" {
			prop, _ = s.Attr("name")
		}
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		switch prop {
		case "og:title":
			preview.Title = content
		case "og:description":
			preview.Description = content
		case "og:image":
			preview.Image = content
		case "description":
			if preview.Description == "" {
				preview.Description = content
			}
		}
	})

	if preview.Title == "" {
		preview.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	return preview
}
