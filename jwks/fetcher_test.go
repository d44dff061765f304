package jwks_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securetoken/go-firebase-middleware/firebasetest"
	"github.com/securetoken/go-firebase-middleware/jwks"
)

func Test_HTTPFetcher(t *testing.T) {
	signer := firebasetest.MustSigner("kid-1")
	other := firebasetest.MustSigner("kid-2")

	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	t.Run("It parses certificates into a key set valid for max-age", func(t *testing.T) {
		server := firebasetest.NewCertificateServer(signer, other)
		defer server.Close()

		fetcher, err := server.Fetcher(jwks.WithFetcherClock(clock))
		require.NoError(t, err)

		set, err := fetcher.FetchKeys(context.Background())
		require.NoError(t, err)

		assert.Equal(t, []string{"kid-1", "kid-2"}, set.KeyIDs())
		assert.Equal(t, now.Add(19302*time.Second), set.ValidUntil())

		key, ok := set.LookupKeyID("kid-1")
		require.True(t, ok)
		assert.Equal(t, "kid-1", key.KeyID())
		assert.Equal(t, "RS256", key.Algorithm().String())
	})

	t.Run("It fails without a Cache-Control header", func(t *testing.T) {
		server := firebasetest.NewCertificateServer(signer)
		defer server.Close()
		server.SetCacheControl("")

		fetcher, err := server.Fetcher()
		require.NoError(t, err)

		_, err = fetcher.FetchKeys(context.Background())
		assert.ErrorIs(t, err, jwks.ErrMissingMaxAge)
	})

	t.Run("It fails when max-age is not a number", func(t *testing.T) {
		server := firebasetest.NewCertificateServer(signer)
		defer server.Close()
		server.SetCacheControl("public, max-age=soon")

		fetcher, err := server.Fetcher()
		require.NoError(t, err)

		_, err = fetcher.FetchKeys(context.Background())
		assert.ErrorIs(t, err, jwks.ErrMissingMaxAge)
	})

	t.Run("It fails on a non-200 response", func(t *testing.T) {
		server := firebasetest.NewCertificateServer(signer)
		defer server.Close()
		server.SetStatus(http.StatusServiceUnavailable)

		fetcher, err := server.Fetcher()
		require.NoError(t, err)

		_, err = fetcher.FetchKeys(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 503")
	})

	t.Run("It fails when no certificates are published", func(t *testing.T) {
		server := firebasetest.NewCertificateServer()
		defer server.Close()

		fetcher, err := server.Fetcher()
		require.NoError(t, err)

		_, err = fetcher.FetchKeys(context.Background())
		assert.ErrorIs(t, err, jwks.ErrEmptyKeySet)
	})

	t.Run("It honours context cancellation", func(t *testing.T) {
		server := firebasetest.NewCertificateServer(signer)
		defer server.Close()

		fetcher, err := server.Fetcher()
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = fetcher.FetchKeys(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int64(0), server.Hits())
	})

	t.Run("It rejects invalid options", func(t *testing.T) {
		_, err := jwks.NewHTTPFetcher(jwks.WithHTTPClient(nil))
		assert.Error(t, err)

		_, err = jwks.NewHTTPFetcher(jwks.WithCertificateURL("ftp://example.com"))
		assert.Error(t, err)

		_, err = jwks.NewHTTPFetcher(jwks.WithFetcherClock(nil))
		assert.Error(t, err)
	})
}
