package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joeshaw/envdecode"
)

// ErrEmptyFile is returned by LoadFile when the file has no content.
var ErrEmptyFile = errors.New("config file is empty")

// Env is the environment representation of a ProviderConfig.
type Env struct {
	// FIREBASE_PROJECT_IDS is a comma separated list of project ids.
	ProjectIDs string `env:"FIREBASE_PROJECT_IDS"`
	// FIREBASE_PUBLIC_ROUTES is a comma separated list of route patterns.
	PublicRoutes string `env:"FIREBASE_PUBLIC_ROUTES"`
}

// ProviderConfig converts the decoded environment into a ProviderConfig.
func (e Env) ProviderConfig() ProviderConfig {
	return ProviderConfig{
		ProjectIDs:   splitList(e.ProjectIDs),
		PublicRoutes: splitList(e.PublicRoutes),
	}
}

// FromEnv builds a ProviderConfig from the process environment.
func FromEnv() (ProviderConfig, error) {
	var env Env
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return ProviderConfig{}, fmt.Errorf("decode environment: %w", err)
	}
	return env.ProviderConfig(), nil
}

// LoadFile reads a JSON encoded ProviderConfig from path.
func LoadFile(path string) (ProviderConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return ProviderConfig{}, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a JSON encoded ProviderConfig from r.
func Decode(r io.Reader) (ProviderConfig, error) {
	var cfg ProviderConfig
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return ProviderConfig{}, ErrEmptyFile
		}
		return ProviderConfig{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ProjectIDs = compact(cfg.ProjectIDs)
	cfg.PublicRoutes = compact(cfg.PublicRoutes)
	return cfg, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return compact(strings.Split(s, ","))
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
