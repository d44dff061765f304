// Package firebasefiber adapts the Firebase authentication gate to fiber.
package firebasefiber

import (
	"github.com/gofiber/fiber/v2"

	firebasemiddleware "github.com/securetoken/go-firebase-middleware"
	"github.com/securetoken/go-firebase-middleware/core"
)

// DefaultClaimsKey is the fiber locals key holding the *core.Claims.
const DefaultClaimsKey = "firebase.claims"

type fiberMiddlewareConfig struct {
	errorHandler func(*fiber.Ctx, *core.VerificationError) error
	contextKey   string
}

// Option configures the fiber middleware.
type Option func(*fiberMiddlewareConfig)

// WithErrorHandler sets a custom error handler for rejected requests.
func WithErrorHandler(handler func(*fiber.Ctx, *core.VerificationError) error) Option {
	return func(config *fiberMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithContextKey sets the locals key for the claims.
func WithContextKey(key string) Option {
	return func(config *fiberMiddlewareConfig) {
		config.contextKey = key
	}
}

// New creates a fiber handler backed by gate. Verified requests carry the
// subject in c.Locals(core.SubjectKey), the claims under the claims key, and
// both in c.UserContext().
func New(gate *firebasemiddleware.FirebaseMiddleware, opts ...Option) fiber.Handler {
	config := &fiberMiddlewareConfig{
		errorHandler: defaultFiberErrorHandler,
		contextKey:   DefaultClaimsKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *fiber.Ctx) error {
		if gate.IsPublicPath(c.Method(), c.Path()) {
			return c.Next()
		}

		claims, err := gate.AuthenticateHeader(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return config.errorHandler(c, core.AsVerificationError(err))
		}

		c.SetUserContext(core.SetClaims(c.UserContext(), claims))
		c.Locals(core.SubjectKey, claims.Subject)
		c.Locals(config.contextKey, claims)
		return c.Next()
	}
}

func defaultFiberErrorHandler(c *fiber.Ctx, err *core.VerificationError) error {
	return c.Status(fiber.StatusUnauthorized).JSON(core.NewFailureBody(err))
}

// GetClaims returns the claims stored by the middleware.
func GetClaims(c *fiber.Ctx, contextKey string) (*core.Claims, bool) {
	if contextKey == "" {
		contextKey = DefaultClaimsKey
	}
	claims, ok := c.Locals(contextKey).(*core.Claims)
	return claims, ok
}

// Subject returns the verified Firebase user id.
func Subject(c *fiber.Ctx) (string, bool) {
	uid, ok := c.Locals(core.SubjectKey).(string)
	return uid, ok && uid != ""
}
