package validator

import (
	"errors"
	"time"
)

// Option is how options for the Verifier are set up.
// Options return errors to enable validation during construction.
type Option func(*Verifier) error

// WithClock sets the time source used for exp, iat and auth_time checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}

// WithAllowedClockSkew sets the allowed clock skew for exp, iat and nbf.
//
// If not set, the default is 0 (no clock skew allowed). It does not apply to
// auth_time, which must never be in the future.
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Verifier) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithStandardClaimsVerifier replaces the signature and registered claims
// verification.
func WithStandardClaimsVerifier(s StandardClaimsVerifier) Option {
	return func(v *Verifier) error {
		if s == nil {
			return errors.New("standard claims verifier cannot be nil")
		}
		v.standard = s
		return nil
	}
}
