/*
Package jwks fetches and caches the public keys that sign Firebase ID tokens.

Firebase publishes its current signing certificates as a JSON object mapping
key ids to PEM encoded X.509 certificates, together with a Cache-Control
max-age directive telling clients how long the set may be cached. Keys rotate
over time, so a token may reference a key id that an older cached set does not
know yet.

# Components

HTTPFetcher performs the network call and converts the response into an
immutable KeySet whose ValidUntil is now + max-age. A response without a
max-age directive is an error: the keys are never cached without an expiry.

Cache holds the process-wide KeySet and decides when it must be refreshed:

  - nothing has been fetched yet
  - the set is within the refresh margin (default one hour) of its expiry
  - the caller forces a refresh

A lookup for an unknown key id forces exactly one refresh before failing
with *KeyNotFoundError, so legitimate key rotation heals itself while a bogus
kid costs at most one extra round trip.

# Basic Usage

	fetcher, err := jwks.NewHTTPFetcher(
	    jwks.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}),
	)
	if err != nil {
	    log.Fatal(err)
	}

	cache, err := jwks.NewCache(fetcher)
	if err != nil {
	    log.Fatal(err)
	}

	key, err := cache.Lookup(ctx, kid, false)

# Concurrency

The KeySet is swapped atomically and never mutated in place. Refreshes
triggered by concurrent requests share a single fetch. Lookups never hold a
lock while verifying tokens.
*/
package jwks
