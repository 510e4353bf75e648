package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/salestrack/salestrack-api/internal/api/metrics"
	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// PrincipalKey is the echo context key under which Auth stores the caller.
const PrincipalKey = "principal"

// TokenValidator resolves a bearer token to the identity it was issued for.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*domain.Principal, error)
}

// Auth validates the bearer token and injects the principal into context.
// Every authentication failure is answered with the same 401.
func Auth(validator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthFailuresTotal.WithLabelValues("malformed_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			principal, err := validator.Validate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenInvalidated):
					metrics.AuthFailuresTotal.WithLabelValues("invalidated").Inc()
				case domain.IsAuthError(err):
					metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				default:
					// Store failures are not the caller's fault; the error
					// handler turns them into a 500.
					metrics.AuthFailuresTotal.WithLabelValues("error").Inc()
					return err
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}

			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}

// PrincipalFrom returns the principal stored by Auth, or nil when the
// request did not pass through it.
func PrincipalFrom(c echo.Context) *domain.Principal {
	p, _ := c.Get(PrincipalKey).(*domain.Principal)
	return p
}
