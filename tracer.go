package firebasemiddleware

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/securetoken/go-firebase-middleware/core"
)

const instrumentationName = "github.com/securetoken/go-firebase-middleware"

// NewTracer returns the tracer used for gate spans from tp. A nil tp selects
// the global OpenTelemetry tracer provider.
func NewTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(instrumentationName)
}

func startGateSpan(tracer trace.Tracer, r *http.Request) (ctx context.Context, span trace.Span) {
	return tracer.Start(r.Context(), "firebase.auth_gate",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		),
	)
}

func markPublic(span trace.Span) {
	span.SetAttributes(attribute.String("firebase.outcome", "public"))
}

func markVerified(span trace.Span) {
	span.SetAttributes(attribute.String("firebase.outcome", "verified"))
}

func markRejected(span trace.Span, err *core.VerificationError) {
	span.SetAttributes(
		attribute.String("firebase.outcome", "rejected"),
		attribute.String("firebase.category", string(err.Category)),
	)
	span.SetStatus(codes.Error, err.Category.Label())
}
