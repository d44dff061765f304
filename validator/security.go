package validator

import (
	"fmt"
	"strings"

	"github.com/securetoken/go-firebase-middleware/core"
)

// maxTokenSize bounds the token length accepted before any parsing. Firebase
// ID tokens are around 1 KB; custom claims can add up to 1000 bytes.
const maxTokenSize = 16 * 1024

// validateTokenFormat rejects tokens that cannot be a compact JWS before they
// reach the parser: oversized input or anything other than three segments.
func validateTokenFormat(token string) error {
	if len(token) > maxTokenSize {
		return core.NewVerificationError(
			core.CategoryDecode,
			"Token too large",
			fmt.Errorf("token is %d bytes, limit is %d", len(token), maxTokenSize),
		)
	}

	if strings.Count(token, ".") != 2 {
		return core.NewVerificationError(core.CategoryDecode, "Not enough or too many segments", nil)
	}

	return nil
}
