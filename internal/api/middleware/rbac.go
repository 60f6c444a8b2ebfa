package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/mealbridge/marketplace/internal/core/domain"
)

// RBAC admits only callers whose account role is one of allowedRoles.
// Rejections surface as domain.ErrForbidden.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]bool, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !allowed[domain.Role(role)] {
				return fmt.Errorf("role %q on %s: %w", role, c.Path(), domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
