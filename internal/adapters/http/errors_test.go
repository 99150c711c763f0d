package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &entities.ValidationError{Field: "Title", Message: "is required"}, http.StatusBadRequest},
		{"unknown permission", fmt.Errorf("apply: %w", entities.ErrUnknownPermission), http.StatusBadRequest},
		{"invalid role", entities.ErrInvalidRole, http.StatusBadRequest},
		{"credentials", entities.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", fmt.Errorf("delete user: %w", entities.ErrForbidden), http.StatusForbidden},
		{"not found", fmt.Errorf("load task: %w", entities.ErrNotFound), http.StatusNotFound},
		{"duplicate email", entities.ErrDuplicateEmail, http.StatusConflict},
		{"echo error", echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded"), http.StatusTooManyRequests},
		{"unexpected", errors.New("socket closed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, message := StatusFor(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, message)
		})
	}
}

func TestStatusForHidesInternalErrors(t *testing.T) {
	_, message := StatusFor(errors.New("pq: password authentication failed"))
	assert.Equal(t, "Internal server error", message)
}

func TestErrorHandlerWritesErrorBody(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(logger.NewNop())(entities.ErrNotFound, c)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not found", body.Error)
}

func TestErrorHandlerHead(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodHead, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(logger.NewNop())(entities.ErrForbidden, c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Body.String())
}
