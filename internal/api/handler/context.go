package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/api/middleware"
	"github.com/userhub/identity-system/internal/core/domain"
)

// ctxSession extracts the session loaded by the SessionLoader middleware
// and fast-fails before any service call. Handlers behind an
// authentication gate use this: a missing or unauthenticated session here
// means the route was wired without its gate, so answer 401 rather than
// proceed with a nil identity.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session := middleware.Session(c)
	if session == nil || !session.Authenticated {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated session")
	}
	return session, nil
}
