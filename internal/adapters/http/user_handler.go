package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// UserHandler serves the admin user-management routes
type UserHandler struct {
	userService ports.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService ports.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      log,
	}
}

// ListUsers godoc
// @Summary List every account
// @Tags admin
// @Produce json
// @Success 200 {array} entities.User
// @Failure 403 {object} ErrorResponse
// @Security CookieAuth
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create an account with a role
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.CreateUserRequest true "Account data"
// @Success 201 {object} entities.User
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security CookieAuth
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req ports.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	user, err := h.userService.CreateUser(c.Request().Context(), CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser changes another account's profile, role or permissions
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req ports.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), CurrentUser(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ResetPassword sets a new password for another account
func (h *UserHandler) ResetPassword(c echo.Context) error {
	var req ports.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	if err := h.userService.ResetPassword(c.Request().Context(), CurrentUser(c), c.Param("id"), req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successfully"})
}

// DeleteUser removes another account
func (h *UserHandler) DeleteUser(c echo.Context) error {
	deleted, err := h.userService.DeleteUser(c.Request().Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: true})
}
