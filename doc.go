/*
Package firebasemiddleware provides HTTP middleware that authenticates
requests carrying Firebase ID tokens.

The middleware follows the Core-Adapter pattern: verification lives in the
core package and this package is the net/http adapter. Framework adapters for
gin, echo and fiber live under framework/, and gRPC interceptors under
integrations/grpc.

# Quick Start

	import (
	    "github.com/securetoken/go-firebase-middleware"
	    "github.com/securetoken/go-firebase-middleware/config"
	    "github.com/securetoken/go-firebase-middleware/jwks"
	    "github.com/securetoken/go-firebase-middleware/validator"
	)

	func main() {
	    fetcher, err := jwks.NewHTTPFetcher()
	    if err != nil {
	        log.Fatal(err)
	    }
	    cache, err := jwks.NewCache(fetcher)
	    if err != nil {
	        log.Fatal(err)
	    }
	    verifier, err := validator.New(cache)
	    if err != nil {
	        log.Fatal(err)
	    }

	    store := config.NewStore(config.ProviderConfig{
	        ProjectIDs:   []string{"my-project"},
	        PublicRoutes: []string{"/healthz"},
	    })

	    middleware, err := firebasemiddleware.New(
	        firebasemiddleware.WithVerifier(verifier),
	        firebasemiddleware.WithConfigSource(store),
	    )
	    if err != nil {
	        log.Fatal(err)
	    }

	    http.Handle("/", middleware.CheckJWT(apiHandler))
	    http.ListenAndServe(":8080", nil)
	}

# Accessing Claims

	func apiHandler(w http.ResponseWriter, r *http.Request) {
	    uid, _ := firebasemiddleware.Subject(r.Context())

	    claims, err := firebasemiddleware.GetClaims(r.Context())
	    if err != nil {
	        http.Error(w, "Unauthorized", http.StatusUnauthorized)
	        return
	    }
	    fmt.Fprintf(w, "hello %s <%s>", uid, claims.Email)
	}

Hosts with string-keyed request stores expose the subject under
core.SubjectKey ("firebase.user.uid").

# Rejections

A rejected request is answered by the ErrorResponder and never reaches the
wrapped handler. DefaultErrorResponder writes:

	HTTP/1.1 401 Unauthorized
	Content-Type: application/json

	{"error":"Signature has expired","message":"expired"}

The message is "expired" for expired tokens and "unauthorized" for every other
failure, including a missing or malformed Authorization header.

# Public Routes

Paths matching config.ProviderConfig.PublicRoutes are forwarded without
verification. The patterns are read from the configuration source on every
request, so a config.Store updated by config.Watch takes effect immediately.

# Observability

WithLogger accepts any slog-shaped logger; NewLogrusLogger adapts logrus.
WithMetrics accepts a Metrics sink such as NewPrometheusMetrics. Gate and
verification spans are emitted through OpenTelemetry.
*/
package firebasemiddleware
