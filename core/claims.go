package core

// Claims is the claim set of a verified Firebase ID token.
type Claims struct {
	Subject  string   `json:"sub"`
	Issuer   string   `json:"iss"`
	Audience []string `json:"aud"`
	IssuedAt int64    `json:"iat"`
	Expiry   int64    `json:"exp"`
	AuthTime int64    `json:"auth_time"`

	UserID        string        `json:"user_id,omitempty"`
	Email         string        `json:"email,omitempty"`
	EmailVerified bool          `json:"email_verified,omitempty"`
	Firebase      FirebaseClaim `json:"firebase"`

	// Private holds every non-registered claim exactly as it was encoded,
	// including the ones decoded into the typed fields above.
	Private map[string]any `json:"-"`
}

// FirebaseClaim is the provider-specific "firebase" claim.
type FirebaseClaim struct {
	Identities     map[string][]string `json:"identities,omitempty"`
	SignInProvider string              `json:"sign_in_provider,omitempty"`
	Tenant         string              `json:"tenant,omitempty"`
}
