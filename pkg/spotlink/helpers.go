package spotlink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// commonUserAgent is the user agent string used for all HTTP requests.
	commonUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// commonAcceptHeader is the accept header used for all HTTP requests.
	commonAcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	// defaultHTTPTimeout bounds each extraction method's network call so a
	// stalled endpoint falls through to the next method.
	defaultHTTPTimeout = 10 * time.Second
	// maxHTTPRedirects is the maximum number of HTTP redirects to follow.
	maxHTTPRedirects = 3
	// defaultMaxReadSize limits the amount of HTML we read; metadata lives
	// near the top of the document.
	defaultMaxReadSize = 256 * 1024
	// siteSuffix is the suffix Spotify appends to page titles.
	siteSuffix = " | Spotify"
)

// ErrTooManyRedirects is returned when too many redirects are encountered.
var ErrTooManyRedirects = errors.New("too many redirects")

var (
	titleTagRegex = regexp.MustCompile(`<title>([^<]+)</title>`)
	// byConventionRegex parses the "Title by Artist" convention used by the
	// oEmbed endpoint and page titles.
	byConventionRegex = regexp.MustCompile(`(?i)^(.+?)\s+by\s+(.+)$`)
	// dashConventionRegex parses the "Artist - Title" convention.
	dashConventionRegex = regexp.MustCompile(`^(.+?)\s*[-–—]\s*(.+)$`)
)

// newHTTPClient creates a new HTTP client with standard settings and redirect validation.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxHTTPRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// fetchHTML fetches HTML content from a URL with a size limit.
func fetchHTML(ctx context.Context, client *http.Client, pageURL string, maxReadSize int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", err
	}

	// Set realistic browser headers.
	req.Header.Set("User-Agent", commonUserAgent)
	req.Header.Set("Accept", commonAcceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}

	limitedReader := io.LimitReader(resp.Body, maxReadSize)
	bodyBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(bodyBytes), nil
}

// splitByConvention splits a "Title by Artist" string. When the convention
// does not apply the whole input is returned as the title with an empty artist.
func splitByConvention(s string) (title, artist string) {
	if m := byConventionRegex.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(s), ""
}

// splitDashConvention splits an "Artist - Title" string. The second return
// value reports whether the convention applied.
func splitDashConvention(s string) (artist, title string, ok bool) {
	if m := dashConventionRegex.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
	}
	return "", "", false
}

// documentTitle extracts the <title> text from HTML with the Spotify site
// suffix removed. Returns "" when no title tag is present.
func documentTitle(html string) string {
	m := titleTagRegex.FindStringSubmatch(html)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(m[1], siteSuffix))
}

// metaContent extracts the content attribute of a meta tag identified by the
// given property attribute value. Assumes property precedes content inside
// the tag, which is how Spotify emits its meta markup.
func metaContent(html, property string) string {
	re := regexp.MustCompile(`property="` + regexp.QuoteMeta(property) + `"[^>]*content="([^"]+)"`)
	if m := re.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

// metaContentByName is like metaContent but matches on the name attribute.
func metaContentByName(html, name string) string {
	re := regexp.MustCompile(`name="` + regexp.QuoteMeta(name) + `"[^>]*content="([^"]+)"`)
	if m := re.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}
