package stubapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feedbackhub/portal/internal/core/domain"
)

// RequireRole rejects callers whose role differs from role with a 403.
// Must run after Authenticate.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	msg := "Only " + roleNoun(role) + " can access this resource"
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := currentUser(c)
			if err != nil {
				return err
			}
			if u.Role != role {
				return detail(http.StatusForbidden, msg)
			}
			return next(c)
		}
	}
}

func roleNoun(r domain.Role) string {
	switch r {
	case domain.RoleManager:
		return "managers"
	case domain.RoleEmployee:
		return "employees"
	}
	return string(r)
}
