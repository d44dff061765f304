/*
Package core provides the framework-agnostic part of the Firebase
authentication gate: the failure taxonomy, the verified claim set, request
context helpers and the Core engine wrapped by every transport adapter.

# Architecture

	┌─────────────────────────────────────────────┐
	│         Transport Adapters                  │
	│  (net/http, gin, echo, fiber, gRPC)         │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          Core Engine (THIS PACKAGE)         │
	│  • Configuration snapshot per request       │
	│  • Logging, metrics, tracing                │
	│  • Failure categories and labels            │
	└────────────────┬────────────────────────────┘
	                 │
	                 ▼
	┌─────────────────────────────────────────────┐
	│          validator.Verifier                 │
	│  (header, key lookup, signature, claims)    │
	└─────────────────────────────────────────────┘

# Failure Categories

Every rejected token yields a *VerificationError tagged with a Category.
Clients see the category's label, which is "expired" for CategoryExpired and
"unauthorized" for everything else:

	body := core.NewFailureBody(err)
	// {"error": "Signature has expired", "message": "expired"}

Key lookup failures are reported the same way whether the key id was
unknown or the certificate endpoint was unreachable. Core logs them at error
level with the underlying cause so operators can tell them apart.

# Context

Adapters store the claims with SetClaims; handlers read them back:

	claims, err := core.GetClaims(ctx)
	uid, ok := core.Subject(ctx)

Hosts with string-keyed request stores use SubjectKey ("firebase.user.uid").
*/
package core
