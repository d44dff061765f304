package jwks

import (
	"sort"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
)

// KeySet is an immutable snapshot of the provider's signing keys together with
// the time until which the provider allows them to be cached.
//
// A KeySet is never modified after construction; the Cache replaces it
// wholesale on refresh.
type KeySet struct {
	keys       jwk.Set
	validUntil time.Time
}

// NewKeySet wraps keys in a KeySet valid until validUntil. The caller must not
// modify keys afterwards.
func NewKeySet(keys jwk.Set, validUntil time.Time) *KeySet {
	if keys == nil {
		keys = jwk.NewSet()
	}
	return &KeySet{keys: keys, validUntil: validUntil}
}

// LookupKeyID returns the key with the given key id.
func (s *KeySet) LookupKeyID(kid string) (jwk.Key, bool) {
	if s == nil || kid == "" {
		return nil, false
	}
	return s.keys.LookupKeyID(kid)
}

// ValidUntil returns the absolute expiry announced by the provider.
func (s *KeySet) ValidUntil() time.Time {
	return s.validUntil
}

// Len returns the number of keys in the set.
func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return s.keys.Len()
}

// KeyIDs returns the key ids of the set in sorted order.
func (s *KeySet) KeyIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, s.keys.Len())
	for i := 0; i < s.keys.Len(); i++ {
		if key, ok := s.keys.Key(i); ok {
			ids = append(ids, key.KeyID())
		}
	}
	sort.Strings(ids)
	return ids
}
