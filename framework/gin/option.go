package firebasegin

import (
	"github.com/gin-gonic/gin"

	"github.com/securetoken/go-firebase-middleware/core"
)

// Option defines a functional option for configuring the middleware
type Option func(*ginMiddlewareConfig)

// WithErrorHandler sets a custom error handler for rejected requests. The
// handler must write the response; the chain is aborted afterwards.
func WithErrorHandler(handler func(*gin.Context, *core.VerificationError)) Option {
	return func(config *ginMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithContextKey sets the gin context key for the claims.
func WithContextKey(key string) Option {
	return func(config *ginMiddlewareConfig) {
		config.contextKey = key
	}
}
