package firebasemiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AuthHeaderTokenExtractor(t *testing.T) {
	testCases := []struct {
		name      string
		header    string
		wantToken string
		wantError error
	}{
		{name: "valid bearer token", header: "Bearer i-am-a-token", wantToken: "i-am-a-token"},
		{name: "no header", wantError: ErrTokenMissing},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantError: ErrTokenMalformed},
		{name: "lower case scheme", header: "bearer i-am-a-token", wantError: ErrTokenMalformed},
		{name: "scheme without token", header: "Bearer ", wantError: ErrTokenMalformed},
		{name: "too many parts", header: "Bearer i-am a-token", wantError: ErrTokenMalformed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			token, err := AuthHeaderTokenExtractor(req)
			assert.ErrorIs(t, err, tc.wantError)
			assert.Equal(t, tc.wantToken, token)
		})
	}
}

func Test_MultiTokenExtractor(t *testing.T) {
	fromQuery := func(r *http.Request) (string, error) {
		if token := r.URL.Query().Get("token"); token != "" {
			return token, nil
		}
		return "", ErrTokenMissing
	}
	extractor := MultiTokenExtractor(AuthHeaderTokenExtractor, fromQuery)

	t.Run("first match wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?token=query", nil)
		req.Header.Set("Authorization", "Bearer header")

		token, err := extractor(req)
		assert.NoError(t, err)
		assert.Equal(t, "header", token)
	})

	t.Run("falls through a malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?token=query", nil)
		req.Header.Set("Authorization", "Basic x")

		token, err := extractor(req)
		assert.NoError(t, err)
		assert.Equal(t, "query", token)
	})

	t.Run("reports a malformed header when nothing matches", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic x")

		_, err := extractor(req)
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("reports a missing token", func(t *testing.T) {
		_, err := extractor(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.ErrorIs(t, err, ErrTokenMissing)
	})
}
