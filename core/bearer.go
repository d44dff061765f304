package core

import "strings"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// ParseBearer extracts the token from an Authorization header value of the
// exact form "Bearer <token>". The scheme is case-sensitive and must be
// followed by a single space. Any other value yields ok == false.
func ParseBearer(header string) (token string, ok bool) {
	token, found := strings.CutPrefix(header, BearerScheme+" ")
	if !found || token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", false
	}
	return token, true
}
