package jwks

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshMargin is how long before a key set's expiry the Cache
// starts refreshing it.
const DefaultRefreshMargin = time.Hour

// ErrFetcherNil is returned by NewCache when no fetcher is given.
var ErrFetcherNil = errors.New("key fetcher cannot be nil")

// KeyNotFoundError is returned when a key id is still unknown after a forced
// refresh of the key set.
type KeyNotFoundError struct {
	KeyID string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("Could not find public key for kid %s", e.KeyID)
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Cache holds the authoritative KeySet for the process and refreshes it from
// a KeyFetcher.
//
// The KeySet is published through an atomic pointer: readers always see a
// complete snapshot and refreshes swap it wholesale. Concurrent refreshes are
// coalesced; the last completed fetch wins.
type Cache struct {
	fetcher       KeyFetcher
	refreshMargin time.Duration
	now           func() time.Time
	logger        Logger

	current atomic.Pointer[KeySet]
	fetches atomic.Int64
	group   singleflight.Group
}

// NewCache builds a Cache on top of fetcher. The cache starts empty; the first
// lookup fetches the keys.
//
// Optional options:
//   - WithRefreshMargin: early-refresh margin (default: 1 hour)
//   - WithClock: time source
//   - WithLogger: logger for fetch failures and key id misses
func NewCache(fetcher KeyFetcher, opts ...CacheOption) (*Cache, error) {
	if fetcher == nil {
		return nil, ErrFetcherNil
	}

	c := &Cache{
		fetcher:       fetcher,
		refreshMargin: DefaultRefreshMargin,
		now:           time.Now,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return c, nil
}

// Lookup returns the public key for kid.
//
// The key set is refreshed first when forceRefresh is set, when nothing is
// cached yet, or when the cached set is within the refresh margin of its
// expiry. A kid missing from a set that was not just force-refreshed triggers
// exactly one forced refresh before giving up with *KeyNotFoundError. Fetch
// errors are returned as is; an outdated set is never served as a fallback.
func (c *Cache) Lookup(ctx context.Context, kid string, forceRefresh bool) (jwk.Key, error) {
	set, err := c.keySet(ctx, forceRefresh)
	if err != nil {
		return nil, err
	}

	if key, ok := set.LookupKeyID(kid); ok {
		return key, nil
	}

	if !forceRefresh {
		if c.logger != nil {
			c.logger.Debug("key id not in cached key set, forcing refresh", "kid", kid)
		}
		return c.Lookup(ctx, kid, true)
	}

	if c.logger != nil {
		c.logger.Warn("key id not found after refresh", "kid", kid, "known_kids", set.KeyIDs())
	}
	return nil, &KeyNotFoundError{KeyID: kid}
}

// Current returns the cached key set, or nil when nothing has been fetched.
func (c *Cache) Current() *KeySet {
	return c.current.Load()
}

// Seed installs set as the cached key set without contacting the provider.
func (c *Cache) Seed(set *KeySet) {
	c.current.Store(set)
}

// Fetches returns how many fetches the cache has started.
func (c *Cache) Fetches() int64 {
	return c.fetches.Load()
}

func (c *Cache) keySet(ctx context.Context, forceRefresh bool) (*KeySet, error) {
	if !forceRefresh {
		if set := c.current.Load(); set != nil && c.fresh(set) {
			return set, nil
		}
	}
	return c.refresh(ctx)
}

// fresh reports whether set is still outside the refresh margin.
func (c *Cache) fresh(set *KeySet) bool {
	return c.now().Before(set.ValidUntil().Add(-c.refreshMargin))
}

// refresh runs one coalesced fetch. The fetch is detached from the caller
// that starts it so a cancelled request does not fail the others waiting on
// it; each caller still stops waiting when its own context is done.
func (c *Cache) refresh(ctx context.Context) (*KeySet, error) {
	ch := c.group.DoChan("keys", func() (any, error) {
		c.fetches.Add(1)
		start := c.now()

		set, err := c.fetcher.FetchKeys(context.WithoutCancel(ctx))
		if err != nil {
			if c.logger != nil {
				c.logger.Error("failed to fetch signing keys", "error", err)
			}
			return nil, fmt.Errorf("could not fetch signing keys: %w", err)
		}
		if set == nil {
			return nil, fmt.Errorf("could not fetch signing keys: %w", ErrEmptyKeySet)
		}

		c.current.Store(set)
		if c.logger != nil {
			c.logger.Debug("signing keys refreshed",
				"keys", set.Len(),
				"valid_until", set.ValidUntil(),
				"duration", c.now().Sub(start))
		}
		return set, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*KeySet), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("could not fetch signing keys: %w", ctx.Err())
	}
}
