package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salestrack/salestrack-api/internal/api/middleware"
	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// ctxPrincipal extracts the principal injected by the Auth middleware. Its
// absence means the route was registered without the middleware.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if p == nil || p.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return p, nil
}
