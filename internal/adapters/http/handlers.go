package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	authService ports.AuthService
	userService ports.UserService
	logger      *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, userService ports.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		logger:      log,
	}
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.RegisterRequest true "Account data"
// @Success 201 {object} ports.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req ports.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	response, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}

	c.SetCookie(h.authService.SessionCookie(response.Token))
	return c.JSON(http.StatusCreated, response)
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ports.LoginRequest true "Credentials"
// @Success 200 {object} ports.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req ports.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	response, err := h.authService.Login(c.Request().Context(), req)
	if err != nil {
		h.logger.LogSecurityEvent("login_failed", "", c.RealIP(), map[string]interface{}{"email": req.Email})
		return err
	}

	c.SetCookie(h.authService.SessionCookie(response.Token))
	return c.JSON(http.StatusOK, response)
}

// Logout clears the session cookie. Tokens are not revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.authService.ClearSessionCookie())
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, CurrentUser(c))
}

// UpdateMe edits the authenticated user's own profile
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	var req ports.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// contextUserKey is where RequireAuth stores the authenticated user
const contextUserKey = "user"

// CurrentUser returns the user stored by RequireAuth, or nil
func CurrentUser(c echo.Context) *entities.User {
	user, _ := c.Get(contextUserKey).(*entities.User)
	return user
}

// Request/Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

var errBadRequest = echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
