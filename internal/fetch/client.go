// Package fetch performs the HTTP side of a scrape run: sequential
// GET requests with a browser-like header set, a mandatory
// inter-request delay and retry with exponential backoff.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/schulverzeichnis/gather/internal/ratelimit"
	"github.com/schulverzeichnis/gather/internal/retry"
	urlutil "github.com/schulverzeichnis/gather/internal/utils/url"
)

// FetchError reports a request that failed after exhausting its retry
// budget (or failed fast on a non-retryable cause). It is fatal only
// for the one unit being processed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client issues sequential GET requests on behalf of one scrape run.
// It never caches and never runs two requests concurrently; the
// limiter spaces consecutive requests and the retry config governs
// failures within a single request.
type Client struct {
	http      *http.Client
	limiter   ratelimit.Limiter
	retry     retry.Config
	userAgent string
	headers   map[string]string
}

// NewClient creates a run-scoped fetch client. headers are extra fixed
// request headers applied after the defaults.
func NewClient(httpClient *http.Client, limiter ratelimit.Limiter, retryCfg retry.Config, userAgent string, headers map[string]string) *Client {
	return &Client{
		http:      httpClient,
		limiter:   limiter,
		retry:     retryCfg,
		userAgent: userAgent,
		headers:   headers,
	}
}

// Get fetches one page and returns the raw document text. Timeouts,
// connection failures and retryable server statuses are retried with
// exponential backoff; client errors fail immediately.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) (string, error) {
	target := urlutil.BuildURL(rawURL, params)
	if err := urlutil.ValidateURL(target); err != nil {
		// Malformed request: no retry budget consumed.
		return "", &FetchError{URL: target, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	start := time.Now()
	var body string
	err := retry.WithRetry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.8")
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return retry.NewHTTPError(resp.StatusCode, resp.Status)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = string(data)
		return nil
	})
	if err != nil {
		return "", &FetchError{URL: target, Err: err}
	}

	log.Debug().
		Str("url", target).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("fetch completed")

	return body, nil
}

// GetDocument fetches one page and parses it into a queryable document.
func (c *Client) GetDocument(ctx context.Context, rawURL string, params url.Values) (*goquery.Document, error) {
	body, err := c.Get(ctx, rawURL, params)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: fmt.Errorf("parse HTML: %w", err)}
	}
	return doc, nil
}
