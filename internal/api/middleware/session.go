package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// SessionCookie is the name of the cookie carrying the opaque session token.
const SessionCookie = "session_token"

const sessionContextKey = "session"

// SessionLoader resolves the session cookie into a *domain.Session in the
// request context. Requests without a cookie, or whose token no longer maps
// to a session (logged out, expired, owner deleted), proceed anonymously;
// only a store failure aborts the request.
func SessionLoader(store ports.SessionStore, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			session, err := store.Get(c.Request().Context(), cookie.Value)
			if errors.Is(err, domain.ErrSessionNotFound) {
				return next(c)
			}
			if err != nil {
				log.Error().Err(err).Msg("session lookup failed")
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}

			SetSession(c, session)
			return next(c)
		}
	}
}

// SetSession attaches a session to the request context. The loader calls
// it; tests use it to fabricate gated requests.
func SetSession(c echo.Context, session *domain.Session) {
	c.Set(sessionContextKey, session)
}

// Session returns the session loaded for this request, or nil when the
// request is anonymous.
func Session(c echo.Context) *domain.Session {
	session, _ := c.Get(sessionContextKey).(*domain.Session)
	return session
}
