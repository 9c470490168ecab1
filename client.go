package nslsolver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-attempt request timeout.
	DefaultTimeout = 120 * time.Second
	// DefaultMaxRetries is the number of retries for 429 and 503 responses.
	DefaultMaxRetries = 3
)

type clientConfig struct {
	APIKey     string        `validate:"required"`
	BaseURL    string        `validate:"required,url"`
	Timeout    time.Duration `validate:"gt=0"`
	MaxRetries int           `validate:"gte=0"`
	APIProxy   string        `validate:"omitempty,url"`
}

// Client talks to the NSLSolver API. Its configuration is fixed at
// construction and it is safe for concurrent use.
type Client struct {
	cfg        clientConfig
	httpClient *http.Client
	logger     zerolog.Logger
	limiter    *rate.Limiter

	api *resty.Client

	initialBackoff    time.Duration
	backoffMultiplier float64
	sleep             func(ctx context.Context, d time.Duration) error
}

// New creates a Client for the given API key.
// It returns a *ValidationError if the key is empty or an option is invalid.
func New(apiKey string, opts ...Option) (*Client, error) {
	c := &Client{
		cfg: clientConfig{
			APIKey:     apiKey,
			BaseURL:    DefaultBaseURL,
			Timeout:    DefaultTimeout,
			MaxRetries: DefaultMaxRetries,
		},
		logger:            zerolog.Nop(),
		initialBackoff:    initialBackoff,
		backoffMultiplier: backoffMultiplier,
		sleep:             sleepContext,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.cfg.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.cfg.BaseURL), "/")

	if err := validateStruct(c.cfg); err != nil {
		return nil, err
	}

	c.api = c.createAPIClient()
	return c, nil
}

func (c *Client) createAPIClient() *resty.Client {
	var rc *resty.Client
	if c.httpClient != nil {
		// resty sets Timeout on the client it wraps; copy so the caller's
		// client is left untouched.
		hc := *c.httpClient
		rc = resty.NewWithClient(&hc)
	} else {
		rc = resty.New()
	}

	rc.SetBaseURL(c.cfg.BaseURL).
		SetTimeout(c.cfg.Timeout).
		SetHeader("X-API-Key", c.cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0).
		SetLogger(restyLogger{c.logger})

	if c.cfg.APIProxy != "" {
		rc.SetProxy(c.cfg.APIProxy)
	}
	return rc
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// Timeout returns the per-attempt request timeout.
func (c *Client) Timeout() time.Duration { return c.cfg.Timeout }

// MaxRetries returns the configured retry limit.
func (c *Client) MaxRetries() int { return c.cfg.MaxRetries }

// Close releases idle connections held by the client. The client remains
// usable afterwards; new connections are opened on demand.
func (c *Client) Close() error {
	if c.api != nil {
		c.api.GetClient().CloseIdleConnections()
	}
	return nil
}

// restyLogger forwards resty's internal messages to zerolog.
type restyLogger struct {
	zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.Logger.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.Logger.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.Logger.Debug().Msgf(format, v...)
}
