package core

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/securetoken/go-firebase-middleware/config"
)

// instrumentationName identifies spans created by this module.
const instrumentationName = "github.com/securetoken/go-firebase-middleware"

// Sentinel errors for configuration validation.
var (
	ErrVerifierNil     = errors.New("verifier is required but not set (use WithVerifier option)")
	ErrConfigSourceNil = errors.New("config source cannot be nil")
	ErrLoggerNil       = errors.New("logger cannot be nil")
	ErrMetricsNil      = errors.New("metrics cannot be nil")
	ErrTracerNil       = errors.New("tracer cannot be nil")
)

// Option is a function that configures the Core.
// Options return errors to enable validation during construction.
type Option func(*Core) error

// New creates a new Core instance with the provided options.
//
// The Core must be configured with a Verifier using WithVerifier. Without
// WithConfigSource it verifies against an empty configuration, which rejects
// every token.
//
// Example:
//
//	c, err := core.New(
//	    core.WithVerifier(v),
//	    core.WithConfigSource(store),
//	    core.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(opts ...Option) (*Core, error) {
	c := &Core{
		config: &config.Store{},
		tracer: otel.Tracer(instrumentationName),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.verifier == nil {
		return nil, ErrVerifierNil
	}

	return c, nil
}

// WithVerifier sets the token verifier. This is a required option.
func WithVerifier(v Verifier) Option {
	return func(c *Core) error {
		if v == nil {
			return ErrVerifierNil
		}
		c.verifier = v
		return nil
	}
}

// WithConfigSource sets where the current ProviderConfig is read from.
// The source is consulted once per verification.
func WithConfigSource(src config.Source) Option {
	return func(c *Core) error {
		if src == nil {
			return ErrConfigSourceNil
		}
		c.config = src
		return nil
	}
}

// WithLogger sets an optional logger for the Core.
func WithLogger(logger Logger) Option {
	return func(c *Core) error {
		if logger == nil {
			return ErrLoggerNil
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets an optional metrics sink for the Core.
func WithMetrics(m Metrics) Option {
	return func(c *Core) error {
		if m == nil {
			return ErrMetricsNil
		}
		c.metrics = m
		return nil
	}
}

// WithTracer sets the tracer used for verification spans.
//
// Default: the global OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(c *Core) error {
		if t == nil {
			return ErrTracerNil
		}
		c.tracer = t
		return nil
	}
}
