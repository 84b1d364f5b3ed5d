package handler

import (
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the static HTML pages behind the navigational routes.
// The pages themselves are deployment assets under the configured static
// root; the interesting part is the gate chain each route is registered
// with, not the file contents.
type PageHandler struct {
	staticDir string
}

func NewPageHandler(staticDir string) *PageHandler {
	return &PageHandler{staticDir: staticDir}
}

func (h *PageHandler) Login(c echo.Context) error {
	return h.file(c, "html/login/login.html")
}

func (h *PageHandler) Register(c echo.Context) error {
	return h.file(c, "html/login/registrere.html")
}

func (h *PageHandler) Admin(c echo.Context) error {
	return h.file(c, "html/pages/admin.html")
}

func (h *PageHandler) EditUser(c echo.Context) error {
	return h.file(c, "html/pages/edit-user.html")
}

func (h *PageHandler) NewUser(c echo.Context) error {
	return h.file(c, "html/pages/newuser.html")
}

func (h *PageHandler) User(c echo.Context) error {
	return h.file(c, "html/pages/user.html")
}

func (h *PageHandler) file(c echo.Context, rel string) error {
	return c.File(filepath.Join(h.staticDir, rel))
}
