package validator

import (
	"context"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLookup struct{}

func (nopLookup) Lookup(context.Context, string, bool) (jwk.Key, error) { return nil, nil }

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		v, err := New(nopLookup{})
		require.NoError(t, err)
		assert.NotNil(t, v.standard)
		assert.Zero(t, v.allowedClockSkew)
	})

	t.Run("requires a key lookup", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrKeysNil)
	})

	t.Run("clock skew reaches the default verifier", func(t *testing.T) {
		v, err := New(nopLookup{}, WithAllowedClockSkew(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, time.Minute, v.standard.(*jwxVerifier).skew)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := New(nopLookup{}, WithClock(nil))
		assert.Error(t, err)

		_, err = New(nopLookup{}, WithAllowedClockSkew(-time.Second))
		assert.Error(t, err)

		_, err = New(nopLookup{}, WithStandardClaimsVerifier(nil))
		assert.Error(t, err)
	})
}
