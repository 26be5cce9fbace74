package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxDiagnosticRunes bounds FetchError messages so one misbehaving page
// cannot flood the log.
const maxDiagnosticRunes = 100

// PageFetcher retrieves the raw HTML of a product page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// FetchError reports a failed page retrieval, transport or HTTP level.
type FetchError struct {
	URL        string
	StatusCode int
	Diagnostic string
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.URL, e.StatusCode, e.Diagnostic)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Diagnostic)
}

// Options parameterise the page fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// Client fetches product pages over plain HTTP GET.
type Client struct {
	opts   Options
	client *http.Client
	logger zerolog.Logger
}

// New constructs a page fetcher.
func New(opts Options, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		opts:   opts,
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "page_fetcher").Logger(),
	}
}

// FetchPage issues a single GET and returns the response body as text.
// Non-2xx statuses and transport failures surface as *FetchError.
func (c *Client) FetchPage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Diagnostic: truncate(err.Error())}
	}
	// Some retail sites serve an empty shell or a block page to the
	// default Go agent, so a browser UA is always sent.
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Diagnostic: truncate(err.Error())}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Diagnostic: truncate(err.Error())}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Diagnostic: truncate(strings.TrimSpace(string(body))),
		}
	}

	return string(body), nil
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDiagnosticRunes {
		return s
	}
	return string(runes[:maxDiagnosticRunes])
}

var _ PageFetcher = (*Client)(nil)
