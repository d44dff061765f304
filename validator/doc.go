/*
Package validator verifies Firebase ID tokens.

A token passes when:

  - its header names the RS256 algorithm and a key id
  - the key id resolves to one of the provider's current public keys
  - the signature verifies with that key
  - exp is in the future and iat is not
  - iss is "https://securetoken.google.com/<project id>" for a configured project
  - aud is one of the configured project ids
  - sub is non-empty
  - auth_time is present and not in the future

Failures are *core.VerificationError values tagged with a core.Category.

# Usage

	cache, _ := jwks.NewCache(fetcher)

	v, err := validator.New(cache)
	if err != nil {
	    log.Fatal(err)
	}

	claims, err := v.Verify(ctx, token, config.ProviderConfig{
	    ProjectIDs: []string{"my-project"},
	})

An empty list of project ids yields empty issuer and audience sets, so every
token is rejected.

# Standard Claims

Signature, expiry, issued-at, issuer and audience checks are delegated to a
StandardClaimsVerifier. The default implementation uses lestrrat-go/jwx.
ValidateClaims adds the Firebase specific subject and auth_time rules on top.
*/
package validator
