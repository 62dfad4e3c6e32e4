package auth

import (
	"net/http"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Authentication and authorization failures. Each is terminal for the request.
var (
	ErrMalformedHeader     = apperrors.NewDomainError("MALFORMED_HEADER", "invalid authorization header", http.StatusUnauthorized, nil)
	ErrMalformedCredential = apperrors.NewDomainError("MALFORMED_CREDENTIAL", "invalid basic credential", http.StatusUnauthorized, nil)
	ErrMissingToken        = apperrors.NewDomainError("MISSING_TOKEN", "authorization token not found", http.StatusUnauthorized, nil)
	ErrInvalidToken        = apperrors.NewDomainError("INVALID_TOKEN", "invalid token", http.StatusUnauthorized, nil)
	ErrExpiredToken        = apperrors.NewDomainError("EXPIRED_TOKEN", "token expired", http.StatusUnauthorized, nil)
	ErrWrongTokenKind      = apperrors.NewDomainError("WRONG_TOKEN_KIND", "token kind not accepted here", http.StatusUnauthorized, nil)
	ErrUserNotFound        = apperrors.NewDomainError("USER_NOT_FOUND", "email not found", http.StatusUnauthorized, nil)
	ErrWrongPassword       = apperrors.NewDomainError("WRONG_PASSWORD", "password is wrong", http.StatusUnauthorized, nil)
	ErrForbidden           = apperrors.NewDomainError("FORBIDDEN", "only the author or an admin may do this", http.StatusForbidden, nil)
)
