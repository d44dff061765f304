package firebasegrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/metadata"

	firebasemiddleware "github.com/securetoken/go-firebase-middleware"
)

// TokenExtractor extracts the raw token from the incoming call context.
type TokenExtractor func(ctx context.Context) (string, error)

// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
var ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

// MetadataTokenExtractor reads the token from the "authorization" metadata
// entry, which must be exactly "Bearer <token>". It returns
// firebasemiddleware.ErrTokenMissing or ErrTokenMalformed like the HTTP
// extractor.
//
// gRPC normalizes incoming metadata keys to lowercase, so this extractor only
// checks the lowercase "authorization" key.
func MetadataTokenExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", firebasemiddleware.ErrTokenMissing
	}

	values := md.Get("authorization")
	switch len(values) {
	case 0:
		return "", firebasemiddleware.ErrTokenMissing
	case 1:
		return firebasemiddleware.TokenFromHeader(values[0])
	default:
		return "", ErrMultipleAuthHeaders
	}
}
