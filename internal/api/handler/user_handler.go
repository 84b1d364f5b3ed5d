package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userhub/identity-system/internal/api/middleware"
	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/ports"
)

// UserHandler exposes the user directory over HTTP. Access gating happens
// in the route definitions; handlers only translate between the wire and
// the service.
type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type editUserRequest struct {
	UserID    int64  `json:"userid" form:"userid" validate:"required"`
	Username  string `json:"username" form:"username" validate:"required"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Phone     string `json:"phone" form:"phone"`
	Address   string `json:"address" form:"adresse"`
	RoleID    int    `json:"role_id" form:"role_id" validate:"required,oneof=1 2 3"`
}

// currentUserResponse is the joined identity+role record for the session
// owner. The embedded User already hides the password hash.
type currentUserResponse struct {
	*domain.User
	RoleName string `json:"role"`
}

// List handles GET /api/users.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context())
	if err != nil {
		return err
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/user/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/user/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseUserID(c.Param("id"))
	if err != nil {
		return err
	}
	user, err := h.userService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Current handles GET /api/curentuser. The route is deliberately ungated:
// anonymous callers, and callers whose account has since been deleted, get
// a 200 with a null body instead of an error.
//
// @Summary      Get the session owner's record
// @Tags         users
// @Produce      json
// @Success      200  {object}  currentUserResponse
// @Router       /api/curentuser [get]
func (h *UserHandler) Current(c echo.Context) error {
	session := middleware.Session(c)
	user, err := h.userService.Current(c.Request().Context(), session)
	if err != nil {
		return err
	}
	if user == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, currentUserResponse{User: user, RoleName: user.Role.String()})
}

// Update handles POST /edit-user and redirects back to the admin page.
//
// @Summary      Update a user record
// @Tags         users
// @Accept       x-www-form-urlencoded
// @Success      302
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /edit-user [post]
func (h *UserHandler) Update(c echo.Context) error {
	var req editUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	role, err := domain.RoleFromID(req.RoleID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	err = h.userService.Update(c.Request().Context(), req.UserID, ports.UpdateUserFields{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		Role:      role,
	})
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, adminPagePath)
}

// AdoptRole handles POST /roleupdate: the caller opts into the plain user
// role, and the session snapshot follows.
//
// @Summary      Switch the caller's own role to user
// @Tags         users
// @Success      302
// @Router       /roleupdate [post]
func (h *UserHandler) AdoptRole(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.userService.AdoptUserRole(c.Request().Context(), session); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, userPagePath)
}

// Delete handles DELETE /api/user/:id. The protected admin account answers
// 403 no matter who asks.
//
// @Summary      Delete a user
// @Tags         users
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/user/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseUserID(c.Param("id"))
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteSelf handles DELETE /curentuser: removes the caller's own record
// and invalidates the session.
//
// @Summary      Delete the session owner's account
// @Tags         users
// @Success      200  {object}  map[string]string
// @Router       /curentuser [delete]
func (h *UserHandler) DeleteSelf(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.userService.DeleteSelf(c.Request().Context(), session); err != nil {
		return err
	}
	clearSessionCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}
