package validator

import (
	"time"

	"github.com/securetoken/go-firebase-middleware/config"
	"github.com/securetoken/go-firebase-middleware/core"
)

// AcceptedIssuers derives the accepted issuers from the configured project ids.
func AcceptedIssuers(cfg config.ProviderConfig) []string {
	issuers := make([]string, 0, len(cfg.ProjectIDs))
	for _, id := range cfg.ProjectIDs {
		issuers = append(issuers, IssuerPrefix+"/"+id)
	}
	return issuers
}

// AcceptedAudiences returns the accepted audiences, which are the project ids.
func AcceptedAudiences(cfg config.ProviderConfig) []string {
	return append([]string(nil), cfg.ProjectIDs...)
}

// ValidateClaims applies the Firebase rules that generic JWT validation does
// not cover: the subject must be non-empty and the user must not claim to
// have authenticated after now.
func ValidateClaims(claims *core.Claims, now time.Time) error {
	if claims == nil || claims.Subject == "" {
		return core.NewVerificationError(core.CategoryInvalidSubject, "Invalid subject", nil)
	}

	// A zero auth_time means the claim was absent.
	if claims.AuthTime <= 0 || claims.AuthTime > now.Unix() {
		return core.NewVerificationError(core.CategoryInvalidAuthTime, "Invalid auth time", nil)
	}

	return nil
}
