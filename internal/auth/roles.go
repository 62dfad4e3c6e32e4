package auth

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// OwnershipPredicate reports whether resourceID belongs to userID.
type OwnershipPredicate func(ctx context.Context, userID, resourceID int64) (bool, error)

// Ownership gates a route on the caller owning the resource named by Param.
type Ownership struct {
	Param  string
	IsMine OwnershipPredicate
}

// RequireRole ensures the identified user has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := checkRoles(principal, allowed); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireOwnerOrAdmin passes admins and owners of the :param resource.
func RequireOwnerOrAdmin(param string, isMine OwnershipPredicate) fiber.Handler {
	own := &Ownership{Param: param, IsMine: isMine}

	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := own.check(c, principal); err != nil {
			return err
		}
		return c.Next()
	}
}

func checkRoles(principal *Principal, allowed []domain.Role) error {
	if principal == nil || principal.User == nil {
		return ErrMissingToken
	}
	if len(allowed) == 0 || slices.Contains(allowed, principal.User.Role) {
		return nil
	}
	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		names = append(names, string(role))
	}
	return apperrors.NewDomainError(ErrForbidden.Code, fmt.Sprintf("role %s required", strings.Join(names, " or ")), ErrForbidden.HTTPStatus, nil)
}

func (o *Ownership) check(c *fiber.Ctx, principal *Principal) error {
	if principal == nil || principal.User == nil {
		return ErrMissingToken
	}
	if principal.User.IsAdmin() {
		return nil
	}

	resourceID, err := strconv.ParseInt(c.Params(o.Param), 10, 64)
	if err != nil || resourceID <= 0 {
		return apperrors.NewBadRequest(o.Param + " is required")
	}

	mine, err := o.IsMine(c.UserContext(), principal.User.ID, resourceID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !mine {
		return ErrForbidden
	}
	return nil
}
