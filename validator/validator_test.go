package validator_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securetoken/go-firebase-middleware/config"
	"github.com/securetoken/go-firebase-middleware/core"
	"github.com/securetoken/go-firebase-middleware/firebasetest"
	"github.com/securetoken/go-firebase-middleware/jwks"
	"github.com/securetoken/go-firebase-middleware/validator"
)

const projectID = "test-project"

type fixture struct {
	now      time.Time
	signer   *firebasetest.Signer
	fetcher  *firebasetest.StaticFetcher
	cache    *jwks.Cache
	verifier *validator.Verifier
	cfg      config.ProviderConfig
}

func newFixture(t *testing.T, opts ...validator.Option) *fixture {
	t.Helper()

	f := &fixture{
		now:    time.Unix(1_700_000_000, 0),
		signer: firebasetest.MustSigner(""),
		cfg:    config.ProviderConfig{ProjectIDs: []string{projectID}},
	}
	clock := func() time.Time { return f.now }

	set, err := firebasetest.KeySet(f.now.Add(19302*time.Second), f.signer)
	require.NoError(t, err)
	f.fetcher = firebasetest.NewStaticFetcher(set)

	f.cache, err = jwks.NewCache(f.fetcher, jwks.WithClock(clock))
	require.NoError(t, err)
	f.cache.Seed(set)

	f.verifier, err = validator.New(f.cache, append([]validator.Option{validator.WithClock(clock)}, opts...)...)
	require.NoError(t, err)

	return f
}

func (f *fixture) token(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := f.signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func (f *fixture) payload(opts firebasetest.TokenOptions) jwt.MapClaims {
	opts.Now = f.now
	return firebasetest.Payload(projectID, "uid-1", opts)
}

func requireCategory(t *testing.T, err error, category core.Category, detail string) {
	t.Helper()
	var verr *core.VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, category, verr.Category)
	if detail != "" {
		assert.Equal(t, detail, verr.Error())
	}
}

func TestVerifier_Verify(t *testing.T) {
	t.Run("it accepts a valid token and returns its claims", func(t *testing.T) {
		f := newFixture(t)
		token := f.token(t, f.payload(firebasetest.TokenOptions{Email: "user@example.com", Verified: true}))

		claims, err := f.verifier.Verify(context.Background(), token, f.cfg)
		require.NoError(t, err)

		expected := &core.Claims{
			Subject:       "uid-1",
			Issuer:        "https://securetoken.google.com/" + projectID,
			Audience:      []string{projectID},
			IssuedAt:      f.now.Unix(),
			Expiry:        f.now.Unix() + 5000,
			AuthTime:      f.now.Unix(),
			UserID:        "uid-1",
			Email:         "user@example.com",
			EmailVerified: true,
			Firebase: core.FirebaseClaim{
				Identities:     map[string][]string{"email": {"user@example.com"}},
				SignInProvider: "password",
			},
		}
		if diff := cmp.Diff(expected, claims, cmpopts.IgnoreFields(core.Claims{}, "Private")); diff != "" {
			t.Errorf("claims mismatch (-want +got):\n%s", diff)
		}
		assert.Contains(t, claims.Private, "auth_time")
		assert.Equal(t, 0, f.fetcher.Calls())
	})

	t.Run("it accepts any of several project ids", func(t *testing.T) {
		f := newFixture(t)
		token := f.token(t, f.payload(firebasetest.TokenOptions{}))

		_, err := f.verifier.Verify(context.Background(), token, config.ProviderConfig{
			ProjectIDs: []string{"other-project", projectID},
		})
		require.NoError(t, err)
	})

	t.Run("it rejects an empty token", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.verifier.Verify(context.Background(), "", f.cfg)
		requireCategory(t, err, core.CategoryDecode, "Nil JSON web token")
	})

	t.Run("it rejects garbage", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.verifier.Verify(context.Background(), "not-a-jwt", f.cfg)
		requireCategory(t, err, core.CategoryDecode, "Not enough or too many segments")
	})

	t.Run("it rejects an expired token", func(t *testing.T) {
		f := newFixture(t)
		token := f.token(t, f.payload(firebasetest.TokenOptions{Expiry: f.now.Unix() - 10}))

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryExpired, "Signature has expired")
		assert.Equal(t, "expired", core.NewFailureBody(err).Message)
	})

	t.Run("it accepts an expired token within the allowed clock skew", func(t *testing.T) {
		f := newFixture(t, validator.WithAllowedClockSkew(30*time.Second))
		token := f.token(t, f.payload(firebasetest.TokenOptions{Expiry: f.now.Unix() - 10}))

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		require.NoError(t, err)
	})

	t.Run("it rejects a token issued in the future", func(t *testing.T) {
		f := newFixture(t)
		payload := f.payload(firebasetest.TokenOptions{IssuedAt: f.now.Unix() + 100, AuthTime: f.now.Unix()})
		token := f.token(t, payload)

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidIssuedAt, "Invalid iat")
	})

	t.Run("it rejects an issuer from another project", func(t *testing.T) {
		f := newFixture(t)
		payload := f.payload(firebasetest.TokenOptions{})
		payload["iss"] = "https://securetoken.google.com/evil-project"
		token := f.token(t, payload)

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidIssuer, "")
		assert.Contains(t, err.Error(), "Invalid issuer")
	})

	t.Run("it rejects an audience from another project", func(t *testing.T) {
		f := newFixture(t)
		payload := f.payload(firebasetest.TokenOptions{})
		payload["aud"] = "evil-project"
		token := f.token(t, payload)

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidAudience, "")
		assert.Contains(t, err.Error(), "Invalid audience")
	})

	t.Run("it rejects every token when no project is configured", func(t *testing.T) {
		f := newFixture(t)
		token := f.token(t, f.payload(firebasetest.TokenOptions{}))

		_, err := f.verifier.Verify(context.Background(), token, config.ProviderConfig{})
		requireCategory(t, err, core.CategoryInvalidIssuer, "")
	})

	t.Run("it rejects an empty subject", func(t *testing.T) {
		f := newFixture(t)
		payload := f.payload(firebasetest.TokenOptions{})
		payload["sub"] = ""
		token := f.token(t, payload)

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidSubject, "Invalid subject")
	})

	t.Run("it rejects a missing subject", func(t *testing.T) {
		f := newFixture(t)
		payload := f.payload(firebasetest.TokenOptions{})
		delete(payload, "sub")
		token := f.token(t, payload)

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidSubject, "Invalid subject")
	})

	t.Run("it accepts auth_time equal to now", func(t *testing.T) {
		f := newFixture(t)
		token := f.token(t, f.payload(firebasetest.TokenOptions{AuthTime: f.now.Unix()}))

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		require.NoError(t, err)
	})

	t.Run("it rejects auth_time one second in the future", func(t *testing.T) {
		f := newFixture(t, validator.WithAllowedClockSkew(time.Minute))
		token := f.token(t, f.payload(firebasetest.TokenOptions{AuthTime: f.now.Unix() + 1}))

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidAuthTime, "Invalid auth time")
	})

	t.Run("it rejects a missing auth_time", func(t *testing.T) {
		f := newFixture(t)
		payload := f.payload(firebasetest.TokenOptions{})
		delete(payload, "auth_time")
		token := f.token(t, payload)

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidAuthTime, "Invalid auth time")
	})

	t.Run("it rejects a token signed with another algorithm", func(t *testing.T) {
		f := newFixture(t)
		token, err := firebasetest.SignHMAC(f.signer.KeyID(), []byte("secret"), f.payload(firebasetest.TokenOptions{}))
		require.NoError(t, err)

		_, err = f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryDecode, "Expected a different algorithm")
		assert.Equal(t, 0, f.fetcher.Calls())
	})

	t.Run("it rejects a token without a key id", func(t *testing.T) {
		f := newFixture(t)
		token, err := f.signer.SignWithKeyID("", f.payload(firebasetest.TokenOptions{}))
		require.NoError(t, err)

		_, err = f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryMissingKeyID, "No key id (kid) found from token headers")
	})

	t.Run("it rejects an unknown key id after one refresh", func(t *testing.T) {
		f := newFixture(t)
		token, err := f.signer.SignWithKeyID("rotated-away", f.payload(firebasetest.TokenOptions{}))
		require.NoError(t, err)

		_, err = f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryKeyLookupFailed, "Could not find public key for kid rotated-away")
		assert.Equal(t, 1, f.fetcher.Calls())
	})

	t.Run("it rejects a token signed by another key with a known key id", func(t *testing.T) {
		f := newFixture(t)
		impostor := firebasetest.MustSigner(f.signer.KeyID())
		token, err := impostor.Token(projectID, "uid-1", firebasetest.TokenOptions{Now: f.now})
		require.NoError(t, err)

		_, err = f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryDecode, "Signature verification failed")
	})

	t.Run("it reports fetch failures as key lookup failures", func(t *testing.T) {
		f := newFixture(t)
		f.cache.Seed(nil)
		fetchErr := errors.New("connection refused")
		f.fetcher.Fail(fetchErr)
		token := f.token(t, f.payload(firebasetest.TokenOptions{}))

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryKeyLookupFailed, "")
		assert.ErrorIs(t, err, fetchErr)
	})

	t.Run("it picks up rotated keys", func(t *testing.T) {
		f := newFixture(t)
		rotated := firebasetest.MustSigner("rotated")
		set, err := firebasetest.KeySet(f.now.Add(19302*time.Second), f.signer, rotated)
		require.NoError(t, err)
		f.fetcher.Set(set)

		token, err := rotated.Token(projectID, "uid-2", firebasetest.TokenOptions{Now: f.now})
		require.NoError(t, err)

		claims, err := f.verifier.Verify(context.Background(), token, f.cfg)
		require.NoError(t, err)
		assert.Equal(t, "uid-2", claims.Subject)
		assert.Equal(t, 1, f.fetcher.Calls())
	})
}

type stubStandard struct {
	claims *core.Claims
	err    error
}

func (s *stubStandard) VerifyStandardClaims(string, jwk.Key, jwa.SignatureAlgorithm, []string, []string, time.Time) (*core.Claims, error) {
	return s.claims, s.err
}

func TestVerifier_StandardClaimsVerifier(t *testing.T) {
	t.Run("it applies the Firebase rules to the returned claims", func(t *testing.T) {
		f := newFixture(t, validator.WithStandardClaimsVerifier(&stubStandard{
			claims: &core.Claims{Subject: "uid", AuthTime: 1_700_000_001},
		}))
		token := f.token(t, f.payload(firebasetest.TokenOptions{}))

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidAuthTime, "")
	})

	t.Run("it passes typed failures through", func(t *testing.T) {
		f := newFixture(t, validator.WithStandardClaimsVerifier(&stubStandard{
			err: core.NewVerificationError(core.CategoryInvalidAudience, "nope", nil),
		}))
		token := f.token(t, f.payload(firebasetest.TokenOptions{}))

		_, err := f.verifier.Verify(context.Background(), token, f.cfg)
		requireCategory(t, err, core.CategoryInvalidAudience, "nope")
	})
}
