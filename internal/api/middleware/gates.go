package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/api/metrics"
	"github.com/userhub/identity-system/internal/core/domain"
)

// The gates compose by plain echo chaining: declared order, short-circuit
// on the first denial. Denial behavior is deliberately asymmetric —
// RequireAuthenticated is a navigational gate that sends the client to the
// login page, while RequireAdmin and RequireRole are API-style gates that
// answer 403.

// RequireAuthenticated allows the request iff a session exists and is
// authenticated. Denied requests are redirected to loginPath.
func RequireAuthenticated(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := Session(c)
			if session == nil || !session.Authenticated {
				metrics.GateDenialsTotal.WithLabelValues("authenticated").Inc()
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}

// RequireAdmin allows the request iff the session is authenticated and its
// role snapshot is admin.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := Session(c)
			if session == nil || !session.Authenticated || session.Role != domain.RoleAdmin {
				metrics.GateDenialsTotal.WithLabelValues("admin").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}
			return next(c)
		}
	}
}

// RequireRole allows the request iff the session's role snapshot equals
// role exactly.
func RequireRole(role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := Session(c)
			if session == nil || session.Role != role {
				metrics.GateDenialsTotal.WithLabelValues("role").Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}
			return next(c)
		}
	}
}
