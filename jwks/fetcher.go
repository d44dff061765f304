package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// CertificateURL is the endpoint publishing the X.509 certificates used to
// sign Firebase ID tokens.
const CertificateURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

// maxResponseSize limits the certificate response body. The endpoint serves a
// handful of certificates, typically under 5KB.
const maxResponseSize = 1 << 20

var (
	// ErrMissingMaxAge is returned when the certificate response carries no
	// usable Cache-Control max-age directive. Keys are never cached without one.
	ErrMissingMaxAge = errors.New("certificate response has no Cache-Control max-age directive")

	// ErrEmptyKeySet is returned when the certificate response holds no certificates.
	ErrEmptyKeySet = errors.New("certificate response contains no certificates")
)

// KeyFetcher retrieves the provider's current signing keys.
type KeyFetcher interface {
	FetchKeys(ctx context.Context) (*KeySet, error)
}

// KeyFetcherFunc adapts a function to the KeyFetcher interface.
type KeyFetcherFunc func(ctx context.Context) (*KeySet, error)

// FetchKeys implements KeyFetcher.
func (f KeyFetcherFunc) FetchKeys(ctx context.Context) (*KeySet, error) {
	return f(ctx)
}

// HTTPFetcher downloads the provider certificates and converts them into a KeySet.
type HTTPFetcher struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// NewHTTPFetcher builds an HTTPFetcher for CertificateURL.
//
// Optional options:
//   - WithHTTPClient: custom HTTP client (default: 10s timeout)
//   - WithCertificateURL: alternative endpoint, for tests
//   - WithFetcherClock: time source used to compute the key set expiry
func NewHTTPFetcher(opts ...FetcherOption) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		url:    CertificateURL,
		client: &http.Client{Timeout: 10 * time.Second},
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return f, nil
}

// FetchKeys performs a single GET against the certificate endpoint. It does
// not retry.
func (f *HTTPFetcher) FetchKeys(ctx context.Context) (*KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned status %d, expected 200", resp.StatusCode)
	}

	maxAge, ok := parseMaxAge(resp.Header.Get("Cache-Control"))
	if !ok {
		return nil, ErrMissingMaxAge
	}

	var certificates map[string]string
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&certificates); err != nil {
		return nil, fmt.Errorf("failed to decode certificates: %w", err)
	}

	set, err := parseCertificates(certificates)
	if err != nil {
		return nil, err
	}

	return NewKeySet(set, f.now().Add(maxAge)), nil
}

// parseCertificates converts a kid → PEM certificate mapping into a jwk.Set.
func parseCertificates(certificates map[string]string) (jwk.Set, error) {
	if len(certificates) == 0 {
		return nil, ErrEmptyKeySet
	}

	kids := make([]string, 0, len(certificates))
	for kid := range certificates {
		kids = append(kids, kid)
	}
	sort.Strings(kids)

	set := jwk.NewSet()
	for _, kid := range kids {
		key, err := jwk.ParseKey([]byte(certificates[kid]), jwk.WithPEM(true))
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate for kid %q: %w", kid, err)
		}
		if err := key.Set(jwk.KeyIDKey, kid); err != nil {
			return nil, fmt.Errorf("failed to set kid %q: %w", kid, err)
		}
		if err := key.Set(jwk.AlgorithmKey, jwa.RS256); err != nil {
			return nil, fmt.Errorf("failed to set algorithm for kid %q: %w", kid, err)
		}
		if err := set.AddKey(key); err != nil {
			return nil, fmt.Errorf("failed to add key %q: %w", kid, err)
		}
	}

	return set, nil
}

// maxAgeSeconds is the largest max-age representable as a time.Duration.
const maxAgeSeconds = math.MaxInt64 / int64(time.Second)

// parseMaxAge extracts the max-age directive from a Cache-Control header.
// Handles "max-age=3600", "public, max-age=19302, must-revalidate, no-transform".
func parseMaxAge(cacheControl string) (time.Duration, bool) {
	const maxAgePrefix = "max-age="

	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if len(directive) < len(maxAgePrefix) || !strings.EqualFold(directive[:len(maxAgePrefix)], maxAgePrefix) {
			continue
		}
		seconds, err := strconv.ParseInt(strings.Trim(directive[len(maxAgePrefix):], `"`), 10, 64)
		if err != nil || seconds < 0 {
			return 0, false
		}
		return time.Duration(min(seconds, maxAgeSeconds)) * time.Second, true
	}

	return 0, false
}
