package firebasemiddleware

import (
	"errors"
	"net/http"

	"github.com/securetoken/go-firebase-middleware/core"
)

var (
	// ErrTokenMissing is returned by extractors when the request carries no credentials.
	ErrTokenMissing = errors.New("authorization header missing")

	// ErrTokenMalformed is returned by extractors when credentials are present
	// but not of the form "Bearer <token>".
	ErrTokenMalformed = errors.New("authorization header format must be Bearer {token}")
)

// TokenExtractor returns the raw token of a request. It returns
// ErrTokenMissing or ErrTokenMalformed when there is no usable token; the
// middleware verifies such requests as carrying no token at all.
type TokenExtractor func(r *http.Request) (string, error)

// AuthHeaderTokenExtractor reads the token from an Authorization header of
// the exact form "Bearer <token>".
func AuthHeaderTokenExtractor(r *http.Request) (string, error) {
	return TokenFromHeader(r.Header.Get("Authorization"))
}

// TokenFromHeader applies the AuthHeaderTokenExtractor rules to a raw
// Authorization header value. Adapters without an *http.Request use it.
func TokenFromHeader(header string) (string, error) {
	if header == "" {
		return "", ErrTokenMissing
	}
	token, ok := core.ParseBearer(header)
	if !ok {
		return "", ErrTokenMalformed
	}
	return token, nil
}

// MultiTokenExtractor returns a TokenExtractor that tries extractors in order
// and returns the first token found. A malformed result is kept only if no
// later extractor finds a token.
func MultiTokenExtractor(extractors ...TokenExtractor) TokenExtractor {
	return func(r *http.Request) (string, error) {
		result := ErrTokenMissing
		for _, ex := range extractors {
			token, err := ex(r)
			if err == nil && token != "" {
				return token, nil
			}
			if errors.Is(err, ErrTokenMalformed) {
				result = err
			}
		}
		return "", result
	}
}
