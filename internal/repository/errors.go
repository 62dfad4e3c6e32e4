package repository

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Uniqueness violations surfaced by the user store.
var (
	ErrDuplicateEmail    = apperrors.NewDomainError("DUPLICATE_EMAIL", "email already registered", http.StatusBadRequest, nil)
	ErrDuplicateNickname = apperrors.NewDomainError("DUPLICATE_NICKNAME", "nickname already taken", http.StatusBadRequest, nil)
	ErrDuplicateFollow   = apperrors.NewDomainError("DUPLICATE_FOLLOW", "already following", http.StatusBadRequest, nil)
)

const uniqueViolation = "23505"

// uniqueConstraint returns the violated constraint name, if err is a unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
