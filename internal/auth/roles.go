package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/solicitud-service/internal/domain"
	apperrors "github.com/spec-kit/solicitud-service/pkg/util/errorutil"
)

// RequireRole ensures the principal holds one of the allowed roles. Admins pass every check.
func RequireRole(allowed ...domain.ActorRole) fiber.Handler {
	allowedSet := make(map[domain.ActorRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.Role == domain.RoleAdmin || len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a caller is present.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}
