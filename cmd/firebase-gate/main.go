// Command firebase-gate is an authenticating reverse proxy. It verifies the
// Firebase ID token of every non-public request and forwards verified
// requests to an upstream, adding the user id as a header.
//
// Configuration comes from the environment:
//
//	FIREBASE_PROJECT_IDS    comma separated accepted project ids
//	FIREBASE_PUBLIC_ROUTES  comma separated public route patterns
//	GATE_UPSTREAM_URL       upstream base URL (required)
//	GATE_LISTEN_ADDR        listen address (default :8080)
//	GATE_CONFIG_FILE        optional JSON provider config, reloaded on change
//	GATE_FETCH_TIMEOUT      certificate fetch timeout (default 10s)
//	GATE_LOG_LEVEL          logrus level (default info)
//	GATE_UID_HEADER         header carrying the user id upstream (default X-Firebase-Uid)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joeshaw/envdecode"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	firebasemiddleware "github.com/securetoken/go-firebase-middleware"
	"github.com/securetoken/go-firebase-middleware/config"
	"github.com/securetoken/go-firebase-middleware/jwks"
	"github.com/securetoken/go-firebase-middleware/validator"
)

// Config holds the process configuration.
type Config struct {
	Firebase config.Env

	ListenAddr   string        `env:"GATE_LISTEN_ADDR,default=:8080"`
	UpstreamURL  string        `env:"GATE_UPSTREAM_URL,required"`
	ConfigFile   string        `env:"GATE_CONFIG_FILE"`
	FetchTimeout time.Duration `env:"GATE_FETCH_TIMEOUT,default=10s"`
	LogLevel     string        `env:"GATE_LOG_LEVEL,default=info"`
	UIDHeader    string        `env:"GATE_UID_HEADER,default=X-Firebase-Uid"`
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Fatal("invalid log level")
	}
	log.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("gate stopped")
	}
}

func run(ctx context.Context, cfg Config, log *logrus.Logger) error {
	logger := firebasemiddleware.NewLogrusLogger(log)

	store := config.NewStore(cfg.Firebase.ProviderConfig())
	if cfg.ConfigFile != "" {
		if err := config.Watch(ctx, cfg.ConfigFile, store, logger); err != nil {
			return fmt.Errorf("load config file: %w", err)
		}
	}
	if len(store.Load().ProjectIDs) == 0 {
		log.Warn("no Firebase project ids configured, every token will be rejected")
	}

	fetcher, err := jwks.NewHTTPFetcher(jwks.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}))
	if err != nil {
		return err
	}
	cache, err := jwks.NewCache(fetcher, jwks.WithLogger(logger))
	if err != nil {
		return err
	}
	verifier, err := validator.New(cache)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	gate, err := firebasemiddleware.New(
		firebasemiddleware.WithVerifier(verifier),
		firebasemiddleware.WithConfigSource(store),
		firebasemiddleware.WithLogger(logger),
		firebasemiddleware.WithMetrics(firebasemiddleware.NewPrometheusMetrics(registry)),
	)
	if err != nil {
		return err
	}

	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return fmt.Errorf("invalid upstream URL: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newRouter(gate, upstream, cfg.UIDHeader, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.ListenAddr, "upstream": upstream.String()}).Info("firebase gate listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

// newRouter serves /healthz and /metrics directly and proxies every other
// request through the gate.
func newRouter(gate *firebasemiddleware.FirebaseMiddleware, upstream *url.URL, uidHeader string, registry *prometheus.Registry) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.PathPrefix("/").Handler(gate.CheckJWT(newProxy(upstream, uidHeader)))
	return r
}

// newProxy forwards to upstream. Any client supplied uidHeader is dropped and
// replaced with the verified subject.
func newProxy(upstream *url.URL, uidHeader string) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
			pr.Out.Header.Del(uidHeader)
			if uid, ok := firebasemiddleware.Subject(pr.In.Context()); ok {
				pr.Out.Header.Set(uidHeader, uid)
			}
		},
	}
}
