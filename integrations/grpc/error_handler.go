package firebasegrpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/securetoken/go-firebase-middleware/core"
)

// ErrorHandler converts a rejected token into the error returned to the caller.
type ErrorHandler func(*core.VerificationError) error

// DefaultErrorHandler fails the call with codes.Unauthenticated and the
// message "<label>: <detail>".
func DefaultErrorHandler(err *core.VerificationError) error {
	if err == nil {
		return nil
	}
	return status.Error(codes.Unauthenticated, core.NewFailureBody(err).String())
}
