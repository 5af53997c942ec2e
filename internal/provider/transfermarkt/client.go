// Package transfermarkt scrapes competition, club, match and player pages
// from transfermarkt.
//
// Pages are fetched through a Fetcher and parsed with goquery. List pages
// (season selector, club table, roster, fixtures) fail loudly; player
// profile fields degrade to absent one by one.
package transfermarkt

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/albapepper/scoracle-transfermarkt/internal/provider"
)

// Fetcher retrieves the raw body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ClientOptions configures the HTTP client.
type ClientOptions struct {
	UserAgent         string
	RequestsPerMinute int
	Timeout           time.Duration
}

// Client is the rate-limited HTTP client used for every page request.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a client with browser headers, the cloudflare bypass
// transport and a token bucket limiter.
func NewClient(opts ClientOptions, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 30
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}

	httpClient := resty.New()
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetTimeout(opts.Timeout)
	httpClient.SetHeaders(map[string]string{
		"user-agent":      opts.UserAgent,
		"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"accept-language": "en-US,en;q=0.9",
	})

	rps := float64(opts.RequestsPerMinute) / 60.0
	c := &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}

	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return c.limiter.Wait(req.Context())
	})
	return c
}

// Fetch performs a rate-limited GET and returns the body.
// Transport failures and non-2xx statuses are reported as *provider.FetchError.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	res, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, &provider.FetchError{URL: url, Err: err}
	}
	c.logger.Debug("fetched page", "url", url, "status", res.StatusCode(), "duration", time.Since(start).Round(time.Millisecond))

	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		return nil, &provider.FetchError{URL: url, StatusCode: res.StatusCode()}
	}
	return res.Body(), nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}
