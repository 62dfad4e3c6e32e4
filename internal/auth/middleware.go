package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// PrincipalLocalsKey is the fiber locals key holding the request principal.
const PrincipalLocalsKey = "auth_principal"

// Principal represents the authenticated caller of a single request.
type Principal struct {
	User      *domain.User
	TokenKind TokenKind
	Public    bool
}

// UserFinder resolves token claims to stored users.
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Rule is the per-route authorization configuration.
type Rule struct {
	// Public waives the presence of a token. Role and ownership gates still run.
	Public bool
	// Kind is the token kind the route accepts; empty means access.
	Kind      TokenKind
	Roles     []domain.Role
	Ownership *Ownership
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens *TokenManager
	users  UserFinder
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, users UserFinder) *Middleware {
	return &Middleware{tokens: tokens, users: users}
}

// Require builds the handler enforcing rule.
func (m *Middleware) Require(rule Rule) fiber.Handler {
	kind := rule.Kind
	if kind == "" {
		kind = TokenAccess
	}

	return func(c *fiber.Ctx) error {
		var principal *Principal
		if rule.Public {
			principal = &Principal{Public: true}
		} else {
			p, err := m.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization), kind)
			if err != nil {
				return err
			}
			principal = p
		}
		c.Locals(PrincipalLocalsKey, principal)

		if len(rule.Roles) > 0 {
			if err := checkRoles(principal, rule.Roles); err != nil {
				return err
			}
		}
		if rule.Ownership != nil {
			if err := rule.Ownership.check(c, principal); err != nil {
				return err
			}
		}
		return c.Next()
	}
}

// Authenticate runs presence, extraction, verification, kind enforcement
// and identity lookup for a raw Authorization header value.
func (m *Middleware) Authenticate(ctx context.Context, header string, kind TokenKind) (*Principal, error) {
	if header == "" {
		return nil, ErrMissingToken
	}

	token, err := ExtractToken(header, true)
	if err != nil {
		return nil, err
	}

	claims, err := m.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != kind {
		return nil, ErrWrongTokenKind
	}

	user, err := m.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.MapError(err)
	}
	return &Principal{User: user, TokenKind: claims.Type}, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	return PrincipalFromValue(c.Locals(PrincipalLocalsKey))
}

// PrincipalFromValue converts a raw locals value into a principal.
func PrincipalFromValue(val interface{}) (*Principal, bool) {
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal != nil
}

// CurrentUser returns the identified user or ErrMissingToken.
func CurrentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, ErrMissingToken
	}
	return principal.User, nil
}
