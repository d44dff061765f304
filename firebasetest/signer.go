// Package firebasetest provides fixtures for testing code protected by the
// Firebase authentication gate: an RSA signer with a self-signed certificate,
// token minting with the payload Firebase issues, pre-seeded key sets and a
// fake certificate endpoint.
package firebasetest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/securetoken/go-firebase-middleware/jwks"
	"github.com/securetoken/go-firebase-middleware/validator"
)

// DefaultKeyID is the key id used by signers created with NewSigner("").
const DefaultKeyID = "1234567890"

// Signer mints RS256 tokens with a freshly generated key.
type Signer struct {
	keyID   string
	key     *rsa.PrivateKey
	certPEM string
}

// NewSigner generates a 2048 bit RSA key and a self-signed certificate for it.
// An empty kid selects DefaultKeyID.
func NewSigner(kid string) (*Signer, error) {
	if kid == "" {
		kid = DefaultKeyID
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: "securetoken.system.gserviceaccount.com"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}

	return &Signer{
		keyID:   kid,
		key:     key,
		certPEM: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
	}, nil
}

// MustSigner is like NewSigner but panics on error.
func MustSigner(kid string) *Signer {
	s, err := NewSigner(kid)
	if err != nil {
		panic(err)
	}
	return s
}

// KeyID returns the key id placed in token headers.
func (s *Signer) KeyID() string { return s.keyID }

// PublicKey returns the verification key.
func (s *Signer) PublicKey() *rsa.PublicKey { return &s.key.PublicKey }

// CertificatePEM returns the PEM encoded self-signed certificate.
func (s *Signer) CertificatePEM() string { return s.certPEM }

// Sign signs claims with RS256 and the signer's key id.
func (s *Signer) Sign(claims jwt.MapClaims) (string, error) {
	return s.SignWithKeyID(s.keyID, claims)
}

// SignWithKeyID signs claims with RS256 using kid in the header. An empty kid
// leaves the header without one.
func (s *Signer) SignWithKeyID(kid string, claims jwt.MapClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	return tok.SignedString(s.key)
}

// SignHMAC signs claims with HS256, which the gate must reject.
func SignHMAC(kid string, secret []byte, claims jwt.MapClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if kid != "" {
		tok.Header["kid"] = kid
	}
	return tok.SignedString(secret)
}

// TokenOptions overrides parts of the payload built by Payload. Zero values
// keep the defaults.
type TokenOptions struct {
	Now      time.Time
	AuthTime int64
	IssuedAt int64
	Expiry   int64
	Email    string
	Verified bool
}

// Payload builds the claims Firebase puts in an ID token for uid in projectID.
// Defaults: auth_time and iat are now, exp is now + 5000 seconds.
func Payload(projectID, uid string, opts TokenOptions) jwt.MapClaims {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	current := now.Unix()

	iat := current
	if opts.IssuedAt != 0 {
		iat = opts.IssuedAt
	}
	authTime := iat
	if opts.AuthTime != 0 {
		authTime = opts.AuthTime
	}
	exp := current + 5000
	if opts.Expiry != 0 {
		exp = opts.Expiry
	}
	email := "test@test.com"
	if opts.Email != "" {
		email = opts.Email
	}

	return jwt.MapClaims{
		"iss":            validator.IssuerPrefix + "/" + projectID,
		"aud":            projectID,
		"auth_time":      authTime,
		"user_id":        uid,
		"sub":            uid,
		"iat":            iat,
		"exp":            exp,
		"email":          email,
		"email_verified": opts.Verified,
		"firebase": map[string]any{
			"identities": map[string]any{
				"email": []string{email},
			},
			"sign_in_provider": "password",
		},
	}
}

// Token mints a signed ID token for uid in projectID.
func (s *Signer) Token(projectID, uid string, opts TokenOptions) (string, error) {
	return s.Sign(Payload(projectID, uid, opts))
}

// AuthHeaders returns a copy of headers with an Authorization header carrying
// a token for uid in projectID.
func (s *Signer) AuthHeaders(headers http.Header, projectID, uid string, opts TokenOptions) (http.Header, error) {
	token, err := s.Token(projectID, uid, opts)
	if err != nil {
		return nil, err
	}
	out := headers.Clone()
	if out == nil {
		out = http.Header{}
	}
	out.Set("Authorization", "Bearer "+token)
	return out, nil
}

// JWK returns the signer's public key as a jwk.Key with kid and alg set.
func (s *Signer) JWK() (jwk.Key, error) {
	key, err := jwk.FromRaw(&s.key.PublicKey)
	if err != nil {
		return nil, err
	}
	if err := key.Set(jwk.KeyIDKey, s.keyID); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
		return nil, err
	}
	return key, nil
}

// KeySet builds a KeySet holding the public keys of signers.
func KeySet(validUntil time.Time, signers ...*Signer) (*jwks.KeySet, error) {
	set := jwk.NewSet()
	for _, s := range signers {
		key, err := s.JWK()
		if err != nil {
			return nil, err
		}
		if err := set.AddKey(key); err != nil {
			return nil, err
		}
	}
	return jwks.NewKeySet(set, validUntil), nil
}

// Seed installs the keys of signers into cache, valid for expiresIn from now,
// so that no network fetch happens until the refresh margin is reached.
func Seed(cache *jwks.Cache, now time.Time, expiresIn time.Duration, signers ...*Signer) error {
	set, err := KeySet(now.Add(expiresIn), signers...)
	if err != nil {
		return err
	}
	cache.Seed(set)
	return nil
}
