package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/securetoken/go-firebase-middleware/core"
)

// StandardClaimsVerifier is the generic JWT capability the Verifier builds
// on: it verifies the signature of token with key and alg, checks the
// temporal claims (exp, iat, nbf) at now, and checks the issuer and audience
// against the accepted sets. Failures must be *core.VerificationError values
// tagged with CategoryExpired, CategoryInvalidIssuedAt, CategoryInvalidIssuer,
// CategoryInvalidAudience or CategoryDecode.
type StandardClaimsVerifier interface {
	VerifyStandardClaims(
		token string,
		key jwk.Key,
		alg jwa.SignatureAlgorithm,
		issuers []string,
		audiences []string,
		now time.Time,
	) (*core.Claims, error)
}

// jwxVerifier implements StandardClaimsVerifier with lestrrat-go/jwx.
type jwxVerifier struct {
	skew time.Duration
}

func (j *jwxVerifier) VerifyStandardClaims(
	token string,
	key jwk.Key,
	alg jwa.SignatureAlgorithm,
	issuers []string,
	audiences []string,
	now time.Time,
) (*core.Claims, error) {
	parsed, err := jwt.Parse(
		[]byte(token),
		jwt.WithKey(alg, key),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
		jwt.WithAcceptableSkew(j.skew),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}

	if !slices.Contains(issuers, parsed.Issuer()) {
		return nil, core.NewVerificationError(
			core.CategoryInvalidIssuer,
			fmt.Sprintf("Invalid issuer. Expected %v, received %s", issuers, orNone(parsed.Issuer())),
			nil,
		)
	}

	if !containsAny(audiences, parsed.Audience()) {
		return nil, core.NewVerificationError(
			core.CategoryInvalidAudience,
			fmt.Sprintf("Invalid audience. Expected %v, received %v", audiences, parsed.Audience()),
			nil,
		)
	}

	return claimsFromToken(parsed)
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired()):
		return core.NewVerificationError(core.CategoryExpired, "Signature has expired", err)
	case errors.Is(err, jwt.ErrInvalidIssuedAt()):
		return core.NewVerificationError(core.CategoryInvalidIssuedAt, "Invalid iat", err)
	case errors.Is(err, jwt.ErrTokenNotYetValid()):
		return core.NewVerificationError(core.CategoryDecode, "Signature nbf has not been reached", err)
	default:
		return core.NewVerificationError(core.CategoryDecode, "Signature verification failed", err)
	}
}

// firebaseClaims mirrors the private claims decoded into core.Claims.
type firebaseClaims struct {
	AuthTime      int64              `json:"auth_time"`
	UserID        string             `json:"user_id"`
	Email         string             `json:"email"`
	EmailVerified bool               `json:"email_verified"`
	Firebase      core.FirebaseClaim `json:"firebase"`
}

func claimsFromToken(tok jwt.Token) (*core.Claims, error) {
	private := tok.PrivateClaims()

	raw, err := json.Marshal(private)
	if err != nil {
		return nil, core.NewVerificationError(core.CategoryDecode, "Invalid claims encoding", err)
	}
	var ext firebaseClaims
	if err := json.Unmarshal(raw, &ext); err != nil {
		return nil, core.NewVerificationError(core.CategoryDecode, "Invalid claims encoding", err)
	}

	return &core.Claims{
		Subject:       tok.Subject(),
		Issuer:        tok.Issuer(),
		Audience:      tok.Audience(),
		IssuedAt:      unix(tok.IssuedAt()),
		Expiry:        unix(tok.Expiration()),
		AuthTime:      ext.AuthTime,
		UserID:        ext.UserID,
		Email:         ext.Email,
		EmailVerified: ext.EmailVerified,
		Firebase:      ext.Firebase,
		Private:       private,
	}, nil
}

func containsAny(accepted, actual []string) bool {
	for _, a := range actual {
		if slices.Contains(accepted, a) {
			return true
		}
	}
	return false
}

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
