package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
)

// StatusFor maps a service error to an HTTP status and a client message
func StatusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	}

	var validationErr *entities.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	switch {
	case errors.Is(err, entities.ErrUnknownPermission), errors.Is(err, entities.ErrInvalidRole):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, entities.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden, "Insufficient permissions"
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, entities.ErrDuplicateEmail):
		return http.StatusConflict, "Email already registered"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// ErrorHandler renders every error as {"error": message}
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := StatusFor(err)
		if code >= http.StatusInternalServerError {
			log.Errorw("Request failed",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"error", err.Error(),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Error: message})
		}
		if err != nil {
			log.Errorw("Failed to write error response", "error", err.Error())
		}
	}
}
