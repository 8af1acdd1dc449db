package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/goodhive/onboarding-service/internal/domain"
	apperrors "github.com/goodhive/onboarding-service/pkg/util/errorutil"
)

// RequireAdmin ensures an admin principal was loaded by AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeAdmin || principal.Admin == nil {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// CanActFor reports whether the principal may change data owned by userID:
// admins act for anyone, users only for themselves.
func (p *Principal) CanActFor(userID string) bool {
	switch {
	case p == nil:
		return false
	case p.SubjectType == domain.SubjectTypeAdmin && p.Admin != nil:
		return true
	case p.SubjectType == domain.SubjectTypeUser && p.User != nil:
		return p.User.UserID == userID
	}
	return false
}
