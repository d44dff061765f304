package firebasegrpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	"github.com/securetoken/go-firebase-middleware/core"
)

// ErrVerifierNil is returned by New when neither a verifier nor a core is set.
var ErrVerifierNil = errors.New("verifier is required, use WithVerifier or WithCore option")

// Interceptor provides Firebase ID token verification for gRPC servers.
type Interceptor struct {
	core            *core.Core
	tokenExtractor  TokenExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
	logger          Logger

	// Internal builder for accumulating core options
	coreBuilder *coreBuilder
}

// New creates a new gRPC interceptor with the provided options.
// WithVerifier or WithCore is required.
func New(opts ...Option) (*Interceptor, error) {
	interceptor := &Interceptor{
		tokenExtractor:  MetadataTokenExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	if interceptor.core == nil && interceptor.coreBuilder != nil {
		c, err := interceptor.coreBuilder.build()
		if err != nil {
			return nil, err
		}
		interceptor.core = c
	}

	if interceptor.core == nil {
		return nil, ErrVerifierNil
	}

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that verifies
// the caller's token before invoking the handler.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping token verification for excluded method",
					"method", info.FullMethod)
			}
			return handler(ctx, req)
		}

		verifiedCtx, err := i.authenticate(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(verifiedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// verifies the caller's token before opening the stream.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			if i.logger != nil {
				i.logger.Debug("skipping token verification for excluded method",
					"method", info.FullMethod)
			}
			return handler(srv, ss)
		}

		verifiedCtx, err := i.authenticate(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          verifiedCtx,
		})
	}
}

// authenticate extracts and verifies the token and returns the enriched context.
func (i *Interceptor) authenticate(ctx context.Context, method string) (context.Context, error) {
	token, err := i.tokenExtractor(ctx)
	if err != nil {
		if i.logger != nil {
			i.logger.Debug("no usable bearer token in metadata",
				"reason", err,
				"method", method)
		}
		token = ""
	}

	claims, err := i.core.CheckToken(ctx, token)
	if err != nil {
		return ctx, i.errorHandler(core.AsVerificationError(err))
	}

	return core.SetClaims(ctx, claims), nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context with the verified claims.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
