package jwks

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ============================================================================
// HTTPFetcher Options
// ============================================================================

// FetcherOption is how options for the HTTPFetcher are set up.
type FetcherOption func(*HTTPFetcher) error

// WithHTTPClient sets a custom HTTP client for the HTTPFetcher.
// If not specified, a default client with a 10s timeout is used. The client
// should always carry a timeout: a hung certificate endpoint otherwise blocks
// the request that triggered the refresh.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) error {
		if c == nil {
			return errors.New("HTTP client cannot be nil")
		}
		f.client = c
		return nil
	}
}

// WithCertificateURL points the HTTPFetcher at another endpoint. Production
// code should keep the default CertificateURL; this exists for tests and
// emulators.
func WithCertificateURL(rawURL string) FetcherOption {
	return func(f *HTTPFetcher) error {
		u, err := url.Parse(rawURL)
		if err != nil {
			return fmt.Errorf("invalid certificate URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid certificate URL scheme %q", u.Scheme)
		}
		f.url = u.String()
		return nil
	}
}

// WithFetcherClock sets the time source used to compute key set expiry.
func WithFetcherClock(now func() time.Time) FetcherOption {
	return func(f *HTTPFetcher) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		f.now = now
		return nil
	}
}

// ============================================================================
// Cache Options
// ============================================================================

// CacheOption is how options for the Cache are set up.
type CacheOption func(*Cache) error

// WithRefreshMargin sets how long before expiry a cached key set is refreshed.
//
// Default: 1 hour
func WithRefreshMargin(margin time.Duration) CacheOption {
	return func(c *Cache) error {
		if margin < 0 {
			return errors.New("refresh margin cannot be negative")
		}
		c.refreshMargin = margin
		return nil
	}
}

// WithClock sets the time source used to judge key set freshness.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		c.now = now
		return nil
	}
}

// WithLogger sets an optional logger for the Cache.
func WithLogger(logger Logger) CacheOption {
	return func(c *Cache) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
