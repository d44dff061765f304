package validator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/securetoken/go-firebase-middleware/config"
	"github.com/securetoken/go-firebase-middleware/core"
)

// Algorithm is the only signature algorithm Firebase uses for ID tokens.
const Algorithm = jwa.RS256

// IssuerPrefix prefixes every accepted issuer; the project id follows it.
const IssuerPrefix = "https://securetoken.google.com"

// ErrKeysNil is returned by New when no key source is given.
var ErrKeysNil = errors.New("key lookup cannot be nil")

// KeyLookup resolves a key id to a public key. *jwks.Cache implements it.
type KeyLookup interface {
	Lookup(ctx context.Context, kid string, forceRefresh bool) (jwk.Key, error)
}

// Verifier verifies Firebase ID tokens.
type Verifier struct {
	keys             KeyLookup
	standard         StandardClaimsVerifier
	now              func() time.Time
	allowedClockSkew time.Duration
}

// New sets up a Verifier resolving keys through keys.
//
// Optional options:
//   - WithClock: time source (default: time.Now)
//   - WithAllowedClockSkew: tolerance for exp and iat (default: 0)
//   - WithStandardClaimsVerifier: replaces the jwx based signature and
//     registered claims verification
func New(keys KeyLookup, opts ...Option) (*Verifier, error) {
	if keys == nil {
		return nil, ErrKeysNil
	}

	v := &Verifier{
		keys: keys,
		now:  time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.standard == nil {
		v.standard = &jwxVerifier{skew: v.allowedClockSkew}
	}

	return v, nil
}

// Verify checks token against cfg and returns its claims. Every failure is a
// *core.VerificationError.
func (v *Verifier) Verify(ctx context.Context, token string, cfg config.ProviderConfig) (*core.Claims, error) {
	if token == "" {
		return nil, core.NewVerificationError(core.CategoryDecode, "Nil JSON web token", nil)
	}

	kid, err := keyID(token)
	if err != nil {
		return nil, err
	}

	key, err := v.keys.Lookup(ctx, kid, false)
	if err != nil {
		return nil, core.NewVerificationError(core.CategoryKeyLookupFailed, err.Error(), err)
	}

	now := v.now()
	claims, err := v.standard.VerifyStandardClaims(
		token,
		key,
		Algorithm,
		AcceptedIssuers(cfg),
		AcceptedAudiences(cfg),
		now,
	)
	if err != nil {
		return nil, core.AsVerificationError(err)
	}

	if err := ValidateClaims(claims, now); err != nil {
		return nil, err
	}

	return claims, nil
}

// keyID reads the key id from the token header after checking the token
// structure and the pinned algorithm. The signature is not verified here.
func keyID(token string) (string, error) {
	if err := validateTokenFormat(token); err != nil {
		return "", err
	}

	msg, err := jws.Parse([]byte(token))
	if err != nil {
		return "", core.NewVerificationError(core.CategoryDecode, "Invalid segment encoding", err)
	}

	signatures := msg.Signatures()
	if len(signatures) != 1 {
		return "", core.NewVerificationError(core.CategoryDecode, "Not enough or too many segments", nil)
	}

	headers := signatures[0].ProtectedHeaders()
	if headers.Algorithm() != Algorithm {
		return "", core.NewVerificationError(
			core.CategoryDecode,
			"Expected a different algorithm",
			fmt.Errorf("expected %q signing algorithm but token specified %q", Algorithm, headers.Algorithm()),
		)
	}

	kid := headers.KeyID()
	if kid == "" {
		return "", core.NewVerificationError(core.CategoryMissingKeyID, "No key id (kid) found from token headers", nil)
	}

	return kid, nil
}
