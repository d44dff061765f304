// Package config holds the provider configuration consumed by the Firebase
// authentication gate: the accepted project identifiers and the route patterns
// that hosts let through without verification.
//
// A ProviderConfig is an immutable value. Store publishes snapshots of it so
// request handlers always observe a complete configuration, even while an
// operator reloads the file or a test resets it.
package config

import (
	"path"
	"strings"
	"sync/atomic"
)

// ProviderConfig is a read-only snapshot of the gate configuration.
type ProviderConfig struct {
	// ProjectIDs are the accepted audiences. Accepted issuers are derived from
	// them. An empty list rejects every token.
	ProjectIDs []string `json:"project_ids"`

	// PublicRoutes are path patterns the host serves without authentication.
	// Patterns use path.Match syntax; a pattern ending in "/" matches every
	// path below it.
	PublicRoutes []string `json:"public_routes"`
}

// Clone returns a deep copy so callers cannot mutate a published snapshot.
func (c ProviderConfig) Clone() ProviderConfig {
	return ProviderConfig{
		ProjectIDs:   append([]string(nil), c.ProjectIDs...),
		PublicRoutes: append([]string(nil), c.PublicRoutes...),
	}
}

// IsPublic reports whether requestPath matches one of the public route patterns.
func (c ProviderConfig) IsPublic(requestPath string) bool {
	for _, pattern := range c.PublicRoutes {
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "/") {
			if strings.HasPrefix(requestPath, pattern) || requestPath+"/" == pattern {
				return true
			}
			continue
		}
		if ok, err := path.Match(pattern, requestPath); err == nil && ok {
			return true
		}
	}
	return false
}

// Source provides the current configuration snapshot.
type Source interface {
	Load() ProviderConfig
}

// Store publishes ProviderConfig snapshots. The zero value is ready to use and
// holds an empty configuration.
type Store struct {
	current atomic.Pointer[ProviderConfig]
}

// NewStore returns a Store initialised with cfg.
func NewStore(cfg ProviderConfig) *Store {
	s := &Store{}
	s.Store(cfg)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() ProviderConfig {
	if cfg := s.current.Load(); cfg != nil {
		return *cfg
	}
	return ProviderConfig{}
}

// Store replaces the current snapshot with a copy of cfg.
func (s *Store) Store(cfg ProviderConfig) {
	c := cfg.Clone()
	s.current.Store(&c)
}

// Reset empties the configuration.
func (s *Store) Reset() {
	s.current.Store(&ProviderConfig{})
}

// Static is a Source that always returns the same configuration.
type Static ProviderConfig

// Load implements Source.
func (s Static) Load() ProviderConfig {
	return ProviderConfig(s).Clone()
}
