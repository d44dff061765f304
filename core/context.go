package core

import "context"

// SubjectKey is the well-known key under which hosts with string-keyed request
// stores (gin, echo, fiber) expose the verified subject.
const SubjectKey = "firebase.user.uid"

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	claimsKey contextKey = iota
	subjectKey
)

// SetClaims stores the verified claims and their subject in the context.
func SetClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	if claims != nil {
		ctx = context.WithValue(ctx, subjectKey, claims.Subject)
	}
	return ctx
}

// GetClaims retrieves the verified claims from the context.
func GetClaims(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrClaimsNotFound
	}
	return claims, nil
}

// Subject returns the verified subject (the Firebase user id) from the context.
func Subject(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(subjectKey).(string)
	return sub, ok && sub != ""
}

// HasClaims checks if claims exist in the context without retrieving them.
func HasClaims(ctx context.Context) bool {
	_, err := GetClaims(ctx)
	return err == nil
}
