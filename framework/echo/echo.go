// Package firebaseecho adapts the Firebase authentication gate to echo.
package firebaseecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	firebasemiddleware "github.com/securetoken/go-firebase-middleware"
	"github.com/securetoken/go-firebase-middleware/core"
)

// DefaultClaimsKey is the echo context key holding the *core.Claims.
var DefaultClaimsKey = "firebase.claims"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler func(echo.Context, *core.VerificationError) error
	contextKey   string
}

// New creates an echo middleware backed by gate.
func New(gate *firebasemiddleware.FirebaseMiddleware, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler: defaultEchoErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			r := c.Request()
			if gate.IsPublic(r) {
				return next(c)
			}

			claims, err := gate.Authenticate(r)
			if err != nil {
				return config.errorHandler(c, core.AsVerificationError(err))
			}

			c.SetRequest(r.WithContext(core.SetClaims(r.Context(), claims)))
			c.Set(core.SubjectKey, claims.Subject)
			c.Set(config.contextKey, claims)
			return next(c)
		}
	}
}

func defaultEchoErrorHandler(c echo.Context, err *core.VerificationError) error {
	return c.JSON(http.StatusUnauthorized, core.NewFailureBody(err))
}

// GetClaims extracts the claims from the echo context.
func GetClaims(c echo.Context, contextKey string) (*core.Claims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, ok := c.Get(contextKey).(*core.Claims)
	return claims, ok
}

// Subject returns the verified Firebase user id.
func Subject(c echo.Context) (string, bool) {
	uid, ok := c.Get(core.SubjectKey).(string)
	return uid, ok && uid != ""
}
