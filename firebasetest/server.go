package firebasetest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/securetoken/go-firebase-middleware/jwks"
)

// DefaultCacheControl is the Cache-Control header the real endpoint sends.
const DefaultCacheControl = "public, max-age=19302, must-revalidate, no-transform"

// CertificateServer is a fake certificate endpoint.
type CertificateServer struct {
	*httptest.Server

	hits atomic.Int64

	mu           sync.RWMutex
	certificates map[string]string
	cacheControl string
	status       int
}

// NewCertificateServer starts a server publishing the certificates of signers.
func NewCertificateServer(signers ...*Signer) *CertificateServer {
	s := &CertificateServer{
		cacheControl: DefaultCacheControl,
		status:       http.StatusOK,
	}
	s.SetSigners(signers...)
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *CertificateServer) serve(w http.ResponseWriter, _ *http.Request) {
	s.hits.Add(1)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cacheControl != "" {
		w.Header().Set("Cache-Control", s.cacheControl)
	}
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(s.status)
	if s.status == http.StatusOK {
		_ = json.NewEncoder(w).Encode(s.certificates)
	}
}

// SetSigners replaces the published certificates.
func (s *CertificateServer) SetSigners(signers ...*Signer) {
	certificates := make(map[string]string, len(signers))
	for _, signer := range signers {
		certificates[signer.KeyID()] = signer.CertificatePEM()
	}
	s.mu.Lock()
	s.certificates = certificates
	s.mu.Unlock()
}

// SetCacheControl replaces the Cache-Control header. An empty value omits it.
func (s *CertificateServer) SetCacheControl(value string) {
	s.mu.Lock()
	s.cacheControl = value
	s.mu.Unlock()
}

// SetStatus makes the server answer with status and no body unless it is 200.
func (s *CertificateServer) SetStatus(status int) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Hits returns how many requests the server has answered.
func (s *CertificateServer) Hits() int64 {
	return s.hits.Load()
}

// Fetcher returns an HTTPFetcher pointed at the server.
func (s *CertificateServer) Fetcher(opts ...jwks.FetcherOption) (*jwks.HTTPFetcher, error) {
	opts = append([]jwks.FetcherOption{
		jwks.WithCertificateURL(s.URL),
		jwks.WithHTTPClient(s.Client()),
	}, opts...)
	return jwks.NewHTTPFetcher(opts...)
}

// StaticFetcher is a jwks.KeyFetcher returning a fixed key set or error and
// counting calls.
type StaticFetcher struct {
	mu    sync.Mutex
	set   *jwks.KeySet
	err   error
	calls int
}

// NewStaticFetcher returns a fetcher serving set.
func NewStaticFetcher(set *jwks.KeySet) *StaticFetcher {
	return &StaticFetcher{set: set}
}

// FetchKeys implements jwks.KeyFetcher.
func (f *StaticFetcher) FetchKeys(context.Context) (*jwks.KeySet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

// Set replaces the served key set and clears any error.
func (f *StaticFetcher) Set(set *jwks.KeySet) {
	f.mu.Lock()
	f.set, f.err = set, nil
	f.mu.Unlock()
}

// Fail makes every following fetch return err.
func (f *StaticFetcher) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

// Calls returns the number of fetches performed.
func (f *StaticFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
