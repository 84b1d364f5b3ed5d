package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/api/metrics"
	"github.com/userhub/identity-system/internal/api/middleware"
	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// Post-login landing page per role.
const (
	adminPagePath   = "/admin"
	newUserPagePath = "/new-user"
	userPagePath    = "/user"
	loginPagePath   = "/login"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerRequest struct {
	Username  string `json:"username" form:"username" validate:"required"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Phone     string `json:"phone" form:"phone"`
	Address   string `json:"address" form:"adresse"`
}

// Login authenticates an email/password pair, sets the session cookie, and
// redirects to the landing page of the user's role.
//
// Failed lookups and failed password checks get the same response body so
// the endpoint cannot be used to enumerate accounts; the distinction lives
// only in server logs.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        email     formData  string  true  "Login email"
// @Param        password  formData  string  true  "Password"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	session, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrWrongPassword) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid credentials"})
		}
		return err
	}

	setSessionCookie(c, session.Token)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.SessionsCreatedTotal.Inc()

	switch user.Role {
	case domain.RoleAdmin:
		return c.Redirect(http.StatusFound, adminPagePath)
	case domain.RoleDefault:
		return c.Redirect(http.StatusFound, newUserPagePath)
	case domain.RoleUser:
		return c.Redirect(http.StatusFound, userPagePath)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "invalid role")
	}
}

// Register creates a default-role account and redirects to the login page.
// The issued session identifies the new user but is not authenticated; the
// explicit login that follows is what opens the gates.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        username  formData  string  true  "Display name"
// @Param        email     formData  string  true  "Login email"
// @Param        password  formData  string  true  "Password"
// @Success      302
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	session, _, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return err
	}

	setSessionCookie(c, session.Token)
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	metrics.SessionsCreatedTotal.Inc()

	return c.Redirect(http.StatusFound, loginPagePath)
}

// Logout destroys the session and clears the cookie. Logging out twice, or
// with no session at all, succeeds the same way.
//
// @Summary      Logout
// @Tags         auth
// @Success      302
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusFound, loginPagePath)
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
