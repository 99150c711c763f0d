package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/application/services"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

func tokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie(services.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireAuth accepts the session cookie or a Bearer header and loads the
// current account, so deleted users and changed permissions take effect on
// the next request.
func RequireAuth(auth ports.AuthService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFrom(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			claims := auth.VerifyToken(token)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if errors.Is(err, entities.ErrNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}
			if err != nil {
				return err
			}

			c.Set(contextUserKey, user)
			return next(c)
		}
	}
}

// RequireAdmin allows only the admin role
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			if user.Role != entities.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}

// RequirePermission allows users holding any of perms
func RequirePermission(perms ...entities.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			if !permissions.HasAnyPermission(user, perms...) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
