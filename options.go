package sdmx

import (
	"net/http"
	"time"

	"github.com/gosdmx/sdmx/logger"
)

// Option configures the Client.
type Option func(*Options)

// Options holds all configuration for the Client.
type Options struct {
	// HTTP
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string

	// BaseURL overrides the source's catalog URL, e.g. to point the
	// client at a mirror or a test server.
	BaseURL string

	// Response cache
	CacheEnabled bool
	CacheTTL     time.Duration

	// Logger used for request tracing.
	Logger *logger.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   30 * time.Second,
		UserAgent: "gosdmx/" + Version,

		CacheEnabled: true,
		CacheTTL:     10 * time.Minute,

		Logger: logger.Default(),
	}
}

// WithHTTPClient sets a custom HTTP client. The client's own timeout
// wins over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithTimeout sets the HTTP timeout. Use 0 for no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(o *Options) {
		if ua != "" {
			o.UserAgent = ua
		}
	}
}

// WithBaseURL overrides the source's base URL.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithCacheTTL sets how long responses stay in the in-memory cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.CacheTTL = ttl
		}
	}
}

// WithoutCache disables the response cache entirely.
func WithoutCache() Option {
	return func(o *Options) {
		o.CacheEnabled = false
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *logger.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}
