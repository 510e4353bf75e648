package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", fmt.Errorf("%w: quantity must be at least 1", domain.ErrValidation), http.StatusBadRequest, "validation failed: quantity must be at least 1"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "unauthorized"},
		{"token invalidated", fmt.Errorf("validate: %w", domain.ErrTokenInvalidated), http.StatusUnauthorized, "unauthorized"},
		{"user exists", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"sale not found", domain.ErrSaleNotFound, http.StatusNotFound, "sale not found"},
		{"store unavailable", fmt.Errorf("fetch sales: %w", domain.ErrStoreUnavailable), http.StatusInternalServerError, "internal server error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_AuthFailureLogsNoDetail(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/sales", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(log)(fmt.Errorf("user u-42: %w", domain.ErrTokenInvalidated), c)

	out := buf.String()
	if !strings.Contains(out, "auth failed") {
		t.Fatalf("expected auth failure to be logged, got %q", out)
	}
	if strings.Contains(out, "u-42") || strings.Contains(out, "invalidated") {
		t.Fatalf("auth log must not carry identifiers or cause, got %q", out)
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response must be left untouched")
	}
}
