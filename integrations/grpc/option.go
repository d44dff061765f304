package firebasegrpc

import (
	"errors"

	"github.com/securetoken/go-firebase-middleware/config"
	"github.com/securetoken/go-firebase-middleware/core"
)

// Option configures the Interceptor.
type Option func(*Interceptor) error

// Logger defines an optional logging interface compatible with log/slog.
// This is the same interface used by core for consistent logging across the stack.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// coreBuilder helps build a core.Core with accumulated options.
type coreBuilder struct {
	verifier core.Verifier
	config   config.Source
	logger   Logger
	metrics  core.Metrics
}

func (b *coreBuilder) build() (*core.Core, error) {
	if b.verifier == nil {
		return nil, ErrVerifierNil
	}

	opts := []core.Option{core.WithVerifier(b.verifier)}
	if b.config != nil {
		opts = append(opts, core.WithConfigSource(b.config))
	}
	if b.logger != nil {
		opts = append(opts, core.WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, core.WithMetrics(b.metrics))
	}

	return core.New(opts...)
}

func (i *Interceptor) builder() *coreBuilder {
	if i.coreBuilder == nil {
		i.coreBuilder = &coreBuilder{}
	}
	return i.coreBuilder
}

// WithVerifier sets the token verifier. *validator.Verifier implements
// core.Verifier.
//
// Example:
//
//	interceptor, _ := firebasegrpc.New(
//	    firebasegrpc.WithVerifier(verifier),
//	    firebasegrpc.WithLogger(logger),
//	)
func WithVerifier(v core.Verifier) Option {
	return func(i *Interceptor) error {
		if v == nil {
			return errors.New("verifier cannot be nil")
		}
		i.builder().verifier = v
		return nil
	}
}

// WithCore shares a verification engine with other transports. Verifier,
// config source, logger and metrics options are then ignored for verification.
func WithCore(c *core.Core) Option {
	return func(i *Interceptor) error {
		if c == nil {
			return errors.New("core cannot be nil")
		}
		i.core = c
		return nil
	}
}

// WithConfigSource sets where the accepted project ids are read from.
func WithConfigSource(src config.Source) Option {
	return func(i *Interceptor) error {
		if src == nil {
			return errors.New("config source cannot be nil")
		}
		i.builder().config = src
		return nil
	}
}

// WithLogger sets an optional logger for the interceptor and its core.
func WithLogger(logger Logger) Option {
	return func(i *Interceptor) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		i.builder().logger = logger
		i.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics sink for verification outcomes.
func WithMetrics(metrics core.Metrics) Option {
	return func(i *Interceptor) error {
		if metrics == nil {
			return errors.New("metrics cannot be nil")
		}
		i.builder().metrics = metrics
		return nil
	}
}

// WithTokenExtractor sets a custom token extractor function.
// Default is MetadataTokenExtractor.
func WithTokenExtractor(extractor TokenExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("token extractor cannot be nil")
		}
		i.tokenExtractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes methods from verification.
// Methods use the format "/package.Service/Method".
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
