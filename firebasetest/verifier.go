package firebasetest

import (
	"time"

	"github.com/securetoken/go-firebase-middleware/jwks"
	"github.com/securetoken/go-firebase-middleware/validator"
)

// NewVerifier returns a verifier trusting the keys of signers. The keys are
// served by a StaticFetcher and seeded into the cache for a day, so no
// network access happens.
func NewVerifier(signers ...*Signer) (*validator.Verifier, error) {
	set, err := KeySet(time.Now().Add(24*time.Hour), signers...)
	if err != nil {
		return nil, err
	}

	cache, err := jwks.NewCache(NewStaticFetcher(set))
	if err != nil {
		return nil, err
	}
	cache.Seed(set)

	return validator.New(cache)
}
