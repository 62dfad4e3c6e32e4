package auth

import (
	"encoding/base64"
	"strings"
)

// Authorization header schemes. Matching is case-sensitive.
const (
	SchemeBasic  = "Basic"
	SchemeBearer = "Bearer"
)

// Credential is a decoded Basic envelope. It is never persisted.
type Credential struct {
	Email    string
	Password string
}

// String keeps the raw password out of logs.
func (c Credential) String() string {
	return c.Email + ":******"
}

// ExtractToken returns the token part of an "<Scheme> <token>" header value.
func ExtractToken(header string, expectBearer bool) (string, error) {
	parts := strings.Split(header, " ")

	prefix := SchemeBasic
	if expectBearer {
		prefix = SchemeBearer
	}

	if len(parts) != 2 || parts[0] != prefix {
		return "", ErrMalformedHeader
	}
	return parts[1], nil
}

// DecodeBasicCredential decodes base64("email:password").
func DecodeBasicCredential(token string) (Credential, error) {
	decoded, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		// clients commonly drop the padding
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(token, "="))
		if err != nil {
			return Credential{}, ErrMalformedCredential
		}
	}

	split := strings.Split(string(decoded), ":")
	if len(split) != 2 {
		return Credential{}, ErrMalformedCredential
	}
	return Credential{Email: split[0], Password: split[1]}, nil
}

// EncodeBasicCredential builds the header token for a credential pair.
func EncodeBasicCredential(email, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(email + ":" + password))
}
