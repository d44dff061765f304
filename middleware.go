package firebasemiddleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/securetoken/go-firebase-middleware/config"
	"github.com/securetoken/go-firebase-middleware/core"
)

// FirebaseMiddleware is the net/http authentication gate. It verifies the
// bearer token of every non-public request and forwards verified requests
// with their claims in the context.
type FirebaseMiddleware struct {
	core              *core.Core
	config            config.Source
	errorResponder    ErrorResponder
	tokenExtractor    TokenExtractor
	validateOnOptions bool
	publicRoutes      bool
	logger            Logger
	tracer            trace.Tracer

	// Temporary fields used during construction
	verifier core.Verifier
	metrics  Metrics
}

// New constructs a new FirebaseMiddleware instance with the supplied options.
//
// Example:
//
//	middleware, err := firebasemiddleware.New(
//	    firebasemiddleware.WithVerifier(verifier),
//	    firebasemiddleware.WithConfigSource(store),
//	)
//	if err != nil {
//	    log.Fatalf("failed to create middleware: %v", err)
//	}
func New(opts ...Option) (*FirebaseMiddleware, error) {
	m := &FirebaseMiddleware{
		validateOnOptions: true,
		publicRoutes:      true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if m.core == nil && m.verifier == nil {
		return nil, fmt.Errorf("invalid middleware configuration: %w", ErrVerifierNil)
	}

	m.applyDefaults()

	if m.core == nil {
		if err := m.createCore(); err != nil {
			return nil, fmt.Errorf("failed to create core: %w", err)
		}
	}

	return m, nil
}

func (m *FirebaseMiddleware) createCore() error {
	coreOpts := []core.Option{
		core.WithVerifier(m.verifier),
		core.WithConfigSource(m.config),
		core.WithTracer(m.tracer),
	}
	if m.logger != nil {
		coreOpts = append(coreOpts, core.WithLogger(m.logger))
	}
	if m.metrics != nil {
		coreOpts = append(coreOpts, core.WithMetrics(m.metrics))
	}

	c, err := core.New(coreOpts...)
	if err != nil {
		return err
	}
	m.core = c
	return nil
}

func (m *FirebaseMiddleware) applyDefaults() {
	if m.config == nil {
		m.config = &config.Store{}
	}
	if m.errorResponder == nil {
		m.errorResponder = DefaultErrorResponder
	}
	if m.tokenExtractor == nil {
		m.tokenExtractor = AuthHeaderTokenExtractor
	}
	if m.tracer == nil {
		m.tracer = NewTracer(nil)
	}
}

// Core returns the verification engine, for adapters sharing one gate.
func (m *FirebaseMiddleware) Core() *core.Core {
	return m.core
}

// IsPublic reports whether r targets a public route of the current
// configuration and may skip verification.
func (m *FirebaseMiddleware) IsPublic(r *http.Request) bool {
	return m.IsPublicPath(r.Method, r.URL.Path)
}

// IsPublicPath is IsPublic for hosts that do not expose an *http.Request.
func (m *FirebaseMiddleware) IsPublicPath(method, path string) bool {
	if !m.validateOnOptions && method == http.MethodOptions {
		return true
	}
	return m.publicRoutes && m.config.Load().IsPublic(path)
}

// Authenticate extracts and verifies the token of r. The error is always a
// *core.VerificationError.
func (m *FirebaseMiddleware) Authenticate(r *http.Request) (*core.Claims, error) {
	token, err := m.tokenExtractor(r)
	if err != nil {
		// Missing and malformed credentials are both verified as an absent
		// token; only the log tells them apart.
		if m.logger != nil {
			m.logger.Debug("no usable bearer token in request",
				"reason", err,
				"method", r.Method,
				"path", r.URL.Path)
		}
		token = ""
	}

	return m.core.CheckToken(r.Context(), token)
}

// AuthenticateHeader verifies the token carried by a raw Authorization
// header value. The configured TokenExtractor is not consulted.
func (m *FirebaseMiddleware) AuthenticateHeader(ctx context.Context, header string) (*core.Claims, error) {
	token, err := TokenFromHeader(header)
	if err != nil {
		if m.logger != nil {
			m.logger.Debug("no usable bearer token in header", "reason", err)
		}
		token = ""
	}

	return m.core.CheckToken(ctx, token)
}

// CheckJWT wraps next with the authentication gate.
func (m *FirebaseMiddleware) CheckJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startGateSpan(m.tracer, r)
		defer span.End()

		if m.IsPublic(r) {
			markPublic(span)
			if m.logger != nil {
				m.logger.Debug("skipping token verification for public route",
					"method", r.Method,
					"path", r.URL.Path)
			}
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.Authenticate(r.WithContext(ctx))
		if err != nil {
			verr := core.AsVerificationError(err)
			markRejected(span, verr)
			m.errorResponder.RespondToFailure(w, r, verr)
			return
		}

		markVerified(span)
		r = r.Clone(core.SetClaims(ctx, claims))
		next.ServeHTTP(w, r)
	})
}

// GetClaims retrieves the verified claims from the request context.
//
// Example:
//
//	claims, err := firebasemiddleware.GetClaims(r.Context())
//	if err != nil {
//	    http.Error(w, "failed to get claims", http.StatusInternalServerError)
//	    return
//	}
//	fmt.Println(claims.Email)
func GetClaims(ctx context.Context) (*core.Claims, error) {
	return core.GetClaims(ctx)
}

// MustGetClaims retrieves the claims or panics. Use only behind CheckJWT.
func MustGetClaims(ctx context.Context) *core.Claims {
	claims, err := core.GetClaims(ctx)
	if err != nil {
		panic(err)
	}
	return claims
}

// Subject returns the verified Firebase user id from the request context.
func Subject(ctx context.Context) (string, bool) {
	return core.Subject(ctx)
}

// HasClaims checks if claims exist in the context.
func HasClaims(ctx context.Context) bool {
	return core.HasClaims(ctx)
}

// IsVerificationError reports whether err is a rejected token.
func IsVerificationError(err error) bool {
	return errors.Is(err, core.ErrJWTInvalid)
}
