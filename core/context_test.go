package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHelpers(t *testing.T) {
	t.Run("SetClaims stores claims and subject", func(t *testing.T) {
		claims := &Claims{Subject: "uid-1", Email: "test@test.com"}
		ctx := SetClaims(context.Background(), claims)

		got, err := GetClaims(ctx)
		require.NoError(t, err)
		assert.Same(t, claims, got)

		sub, ok := Subject(ctx)
		assert.True(t, ok)
		assert.Equal(t, "uid-1", sub)
		assert.True(t, HasClaims(ctx))
	})

	t.Run("GetClaims without claims", func(t *testing.T) {
		_, err := GetClaims(context.Background())
		assert.ErrorIs(t, err, ErrClaimsNotFound)
		assert.False(t, HasClaims(context.Background()))

		_, ok := Subject(context.Background())
		assert.False(t, ok)
	})

	t.Run("SetClaims with nil claims", func(t *testing.T) {
		ctx := SetClaims(context.Background(), nil)
		_, err := GetClaims(ctx)
		assert.ErrorIs(t, err, ErrClaimsNotFound)
	})
}

func TestParseBearer(t *testing.T) {
	testCases := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", token: "abc.def.ghi", ok: true},
		{name: "empty header", header: ""},
		{name: "scheme only", header: "Bearer"},
		{name: "scheme and space", header: "Bearer "},
		{name: "lower case scheme", header: "bearer abc"},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz"},
		{name: "two spaces", header: "Bearer  abc"},
		{name: "extra part", header: "Bearer abc def"},
		{name: "no scheme", header: "abc.def.ghi"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, ok := ParseBearer(tc.header)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}
