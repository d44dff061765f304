package core

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/securetoken/go-firebase-middleware/config"
)

// Metric names emitted by Core.
const (
	MetricVerifications       = "firebase_auth_verifications_total"
	MetricVerificationSeconds = "firebase_auth_verification_duration_seconds"
)

// Verifier verifies a raw token against a configuration snapshot.
// *validator.Verifier implements it.
type Verifier interface {
	Verify(ctx context.Context, token string, cfg config.ProviderConfig) (*Claims, error)
}

// Logger defines an optional logging interface for the core.
// It is compatible with log/slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Metrics is a generic metrics sink.
type Metrics interface {
	IncCounter(name string, tags map[string]string)
	ObserveHistogram(name string, value float64, tags map[string]string)
	SetGauge(name string, value float64, tags map[string]string)
}

// Core is the framework-agnostic verification engine shared by every
// transport adapter. It resolves the current configuration, runs the
// verifier and records logs, metrics and a trace span for the outcome.
type Core struct {
	verifier Verifier
	config   config.Source
	logger   Logger
	metrics  Metrics
	tracer   trace.Tracer
}

// CheckToken verifies token and returns its claims. Every failure is a
// *VerificationError; an empty token is a decode error.
func (c *Core) CheckToken(ctx context.Context, token string) (*Claims, error) {
	ctx, span := c.tracer.Start(ctx, "firebase.verify_token", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	cfg := c.config.Load()

	start := time.Now()
	claims, err := c.verifier.Verify(ctx, token, cfg)
	duration := time.Since(start)

	if err != nil {
		verr := AsVerificationError(err)
		span.SetAttributes(
			attribute.String("firebase.outcome", "rejected"),
			attribute.String("firebase.category", string(verr.Category)),
		)
		span.SetStatus(codes.Error, string(verr.Category))
		c.record("rejected", verr.Category, duration)

		if c.logger != nil {
			args := []any{"category", verr.Category, "error", verr.Error(), "duration", duration}
			if verr.Category == CategoryKeyLookupFailed {
				// Unknown kids and unreachable endpoints look the same to clients.
				args = append(args, "cause", verr.Err)
				c.logger.Error("token key lookup failed", args...)
			} else {
				c.logger.Warn("token verification failed", args...)
			}
		}
		return nil, verr
	}

	span.SetAttributes(attribute.String("firebase.outcome", "verified"))
	span.SetStatus(codes.Ok, "")
	c.record("verified", "", duration)

	if c.logger != nil {
		c.logger.Debug("token verified successfully", "subject", claims.Subject, "duration", duration)
	}
	return claims, nil
}

func (c *Core) record(outcome string, category Category, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.IncCounter(MetricVerifications, map[string]string{
		"outcome":  outcome,
		"category": string(category),
	})
	c.metrics.ObserveHistogram(MetricVerificationSeconds, duration.Seconds(), map[string]string{
		"outcome": outcome,
	})
}
