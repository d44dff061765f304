// Package firebasegin adapts the Firebase authentication gate to gin.
package firebasegin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	firebasemiddleware "github.com/securetoken/go-firebase-middleware"
	"github.com/securetoken/go-firebase-middleware/core"
)

// DefaultClaimsKey is the gin context key holding the *core.Claims.
const DefaultClaimsKey = "firebase.claims"

var (
	ErrMissingClaims = errors.New("no Firebase claims found in context")
	ErrInvalidClaims = errors.New("invalid Firebase claims type")
)

type ginMiddlewareConfig struct {
	errorHandler func(*gin.Context, *core.VerificationError)
	contextKey   string
}

// New creates a gin middleware backed by gate. Verified requests carry the
// subject under core.SubjectKey and the claims under the claims key, both in
// the gin context and in the request context.
func New(gate *firebasemiddleware.FirebaseMiddleware, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		errorHandler: defaultGinErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		if gate.IsPublic(c.Request) {
			c.Next()
			return
		}

		claims, err := gate.Authenticate(c.Request)
		if err != nil {
			config.errorHandler(c, core.AsVerificationError(err))
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(core.SetClaims(c.Request.Context(), claims))
		c.Set(core.SubjectKey, claims.Subject)
		c.Set(config.contextKey, claims)
		c.Next()
	}
}

func defaultGinErrorHandler(c *gin.Context, err *core.VerificationError) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, core.NewFailureBody(err))
}

// GetClaims returns the claims stored by the middleware. An empty contextKey
// selects DefaultClaimsKey.
func GetClaims(c *gin.Context, contextKey string) (*core.Claims, error) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingClaims
	}

	verified, ok := claims.(*core.Claims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return verified, nil
}

// Subject returns the verified Firebase user id.
func Subject(c *gin.Context) (string, bool) {
	uid := c.GetString(core.SubjectKey)
	return uid, uid != ""
}
