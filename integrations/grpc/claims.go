package firebasegrpc

import (
	"context"

	"github.com/securetoken/go-firebase-middleware/core"
)

// GetClaims retrieves the verified claims from the call context.
//
// Example:
//
//	claims, err := firebasegrpc.GetClaims(ctx)
//	if err != nil {
//	    return nil, status.Error(codes.Internal, "failed to get claims")
//	}
//	fmt.Println(claims.Email)
func GetClaims(ctx context.Context) (*core.Claims, error) {
	return core.GetClaims(ctx)
}

// Subject returns the verified Firebase user id from the call context.
func Subject(ctx context.Context) (string, bool) {
	return core.Subject(ctx)
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}
