package firebasemiddleware

import (
	"errors"

	"go.opentelemetry.io/otel/trace"

	"github.com/securetoken/go-firebase-middleware/config"
	"github.com/securetoken/go-firebase-middleware/core"
)

// Sentinel errors for configuration validation.
var (
	ErrVerifierNil       = errors.New("verifier is required but not set (use WithVerifier or WithCore)")
	ErrCoreNil           = errors.New("core cannot be nil")
	ErrConfigSourceNil   = errors.New("config source cannot be nil")
	ErrErrorResponderNil = errors.New("error responder cannot be nil")
	ErrTokenExtractorNil = errors.New("token extractor cannot be nil")
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrMetricsNil        = errors.New("metrics cannot be nil")
	ErrTracerNil         = errors.New("tracer cannot be nil")
)

// Option configures the FirebaseMiddleware.
// Returns error for validation failures.
type Option func(*FirebaseMiddleware) error

// WithVerifier sets the token verifier (REQUIRED unless WithCore is used).
// *validator.Verifier implements core.Verifier.
//
// Example:
//
//	fetcher, _ := jwks.NewHTTPFetcher()
//	cache, _ := jwks.NewCache(fetcher)
//	v, _ := validator.New(cache)
//
//	middleware, err := firebasemiddleware.New(
//	    firebasemiddleware.WithVerifier(v),
//	)
func WithVerifier(v core.Verifier) Option {
	return func(m *FirebaseMiddleware) error {
		if v == nil {
			return ErrVerifierNil
		}
		m.verifier = v
		return nil
	}
}

// WithCore shares an existing verification engine, for example one also used
// by the gRPC interceptors. Logger, metrics and verifier options then only
// affect the middleware itself.
func WithCore(c *core.Core) Option {
	return func(m *FirebaseMiddleware) error {
		if c == nil {
			return ErrCoreNil
		}
		m.core = c
		return nil
	}
}

// WithConfigSource sets where the project ids and public routes are read
// from. A *config.Store lets operators swap the configuration at runtime.
//
// Default: an empty configuration, which rejects every token.
func WithConfigSource(src config.Source) Option {
	return func(m *FirebaseMiddleware) error {
		if src == nil {
			return ErrConfigSourceNil
		}
		m.config = src
		return nil
	}
}

// WithPublicRoutes sets whether the configured public routes bypass
// verification.
//
// Default: true
func WithPublicRoutes(enabled bool) Option {
	return func(m *FirebaseMiddleware) error {
		m.publicRoutes = enabled
		return nil
	}
}

// WithValidateOnOptions sets whether OPTIONS requests are verified.
//
// Default: true (OPTIONS requests are verified)
func WithValidateOnOptions(value bool) Option {
	return func(m *FirebaseMiddleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// WithErrorResponder sets how rejected requests are answered.
//
// Default: DefaultErrorResponder
func WithErrorResponder(r ErrorResponder) Option {
	return func(m *FirebaseMiddleware) error {
		if r == nil {
			return ErrErrorResponderNil
		}
		m.errorResponder = r
		return nil
	}
}

// WithTokenExtractor sets the function to extract the token from the request.
//
// Default: AuthHeaderTokenExtractor
func WithTokenExtractor(e TokenExtractor) Option {
	return func(m *FirebaseMiddleware) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		m.tokenExtractor = e
		return nil
	}
}

// WithLogger sets an optional logger for the middleware and its core.
//
// Example:
//
//	middleware, err := firebasemiddleware.New(
//	    firebasemiddleware.WithVerifier(v),
//	    firebasemiddleware.WithLogger(firebasemiddleware.NewLogrusLogger(logrus.StandardLogger())),
//	)
func WithLogger(logger Logger) Option {
	return func(m *FirebaseMiddleware) error {
		if logger == nil {
			return ErrLoggerNil
		}
		m.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for verification outcomes.
func WithMetrics(metrics Metrics) Option {
	return func(m *FirebaseMiddleware) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		m.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer for gate and verification spans.
//
// Default: the global OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(m *FirebaseMiddleware) error {
		if t == nil {
			return ErrTracerNil
		}
		m.tracer = t
		return nil
	}
}
