package nslsolver

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Option is a function that configures a Client.
type Option func(*Client)

// WithBaseURL sets the NSLSolver API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.cfg.BaseURL = baseURL
	}
}

// WithTimeout sets the timeout of a single HTTP attempt. It does not bound
// the whole retry sequence; use a context for that.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.cfg.Timeout = timeout
	}
}

// WithMaxRetries sets how many times a 429 or 503 response is retried.
// Zero disables retries. Negative values make New fail.
func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) {
		c.cfg.MaxRetries = maxRetries
	}
}

// WithAPIProxy routes API traffic through the given proxy URL.
// This is unrelated to the proxy passed in solve parameters, which the
// solver backend uses to reach the target site.
func WithAPIProxy(proxyURL string) Option {
	return func(c *Client) {
		c.cfg.APIProxy = proxyURL
	}
}

// WithHTTPClient sets the underlying HTTP client. The client uses a copy of
// hc whose Timeout is the configured request timeout; hc itself is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request and retry diagnostics.
// The default logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit throttles outgoing attempts, retries included, to rps requests
// per second with the given burst. A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}
