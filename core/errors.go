package core

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrJWTInvalid matches every *VerificationError through errors.Is.
	ErrJWTInvalid = errors.New("jwt invalid")

	// ErrClaimsNotFound is returned when claims cannot be retrieved from context.
	ErrClaimsNotFound = errors.New("claims not found in context")
)

// Category is the machine-readable reason a token was rejected.
type Category string

// Verification failure categories.
const (
	CategoryDecode          Category = "decode_error"
	CategoryMissingKeyID    Category = "missing_key_id"
	CategoryKeyLookupFailed Category = "key_lookup_failed"
	CategoryExpired         Category = "expired"
	CategoryInvalidIssuedAt Category = "invalid_issued_at"
	CategoryInvalidIssuer   Category = "invalid_issuer"
	CategoryInvalidAudience Category = "invalid_audience"
	CategoryInvalidSubject  Category = "invalid_subject"
	CategoryInvalidAuthTime Category = "invalid_auth_time"
)

// Response labels.
const (
	LabelUnauthorized = "unauthorized"
	LabelExpired      = "expired"
)

// Label returns the label reported to clients in the "message" field.
func (c Category) Label() string {
	if c == CategoryExpired {
		return LabelExpired
	}
	return LabelUnauthorized
}

// VerificationError is the terminal outcome of a rejected token.
type VerificationError struct {
	// Category is the machine-readable reason.
	Category Category

	// Detail is the human-readable explanation reported in the "error" field.
	Detail string

	// Err is the underlying cause, if any.
	Err error
}

// NewVerificationError creates a VerificationError.
func NewVerificationError(category Category, detail string, err error) *VerificationError {
	return &VerificationError{Category: category, Detail: detail, Err: err}
}

// Error implements the error interface.
func (e *VerificationError) Error() string {
	if e.Detail == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Detail
}

// Unwrap returns the underlying error for error unwrapping.
func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Is allows the error to be compared with ErrJWTInvalid.
func (e *VerificationError) Is(target error) bool {
	return target == ErrJWTInvalid
}

// AsVerificationError converts any error into a *VerificationError. Errors of
// other types become decode errors carrying their message.
func AsVerificationError(err error) *VerificationError {
	if err == nil {
		return nil
	}
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr
	}
	return NewVerificationError(CategoryDecode, err.Error(), err)
}

// FailureBody is the JSON body returned for rejected requests.
type FailureBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewFailureBody builds the response body for err.
func NewFailureBody(err error) FailureBody {
	verr := AsVerificationError(err)
	if verr == nil {
		return FailureBody{Message: LabelUnauthorized}
	}
	return FailureBody{Error: verr.Error(), Message: verr.Category.Label()}
}

// String renders the body as "label: detail", used by transports without a JSON body.
func (b FailureBody) String() string {
	return fmt.Sprintf("%s: %s", b.Message, b.Error)
}
