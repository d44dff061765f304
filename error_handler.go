package firebasemiddleware

import (
	"encoding/json"
	"net/http"

	"github.com/securetoken/go-firebase-middleware/core"
)

// ErrorResponder answers requests whose token was rejected. The request is
// never forwarded afterwards.
type ErrorResponder interface {
	RespondToFailure(w http.ResponseWriter, r *http.Request, err *core.VerificationError)
}

// ErrorResponderFunc adapts a function to the ErrorResponder interface.
type ErrorResponderFunc func(w http.ResponseWriter, r *http.Request, err *core.VerificationError)

// RespondToFailure implements ErrorResponder.
func (f ErrorResponderFunc) RespondToFailure(w http.ResponseWriter, r *http.Request, err *core.VerificationError) {
	f(w, r, err)
}

// DefaultErrorResponder writes a 401 with the JSON body
// {"error": "<detail>", "message": "expired" | "unauthorized"}.
var DefaultErrorResponder ErrorResponder = ErrorResponderFunc(RespondUnauthorized)

// RespondUnauthorized is the function behind DefaultErrorResponder.
func RespondUnauthorized(w http.ResponseWriter, _ *http.Request, err *core.VerificationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(core.NewFailureBody(err))
}
