package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/salestrack/salestrack-api/internal/core/analytics"
	"github.com/salestrack/salestrack-api/internal/core/domain"
)

const dateOnly = "2006-01-02"

// parseDate accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date, which
// is read as midnight UTC.
func parseDate(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", domain.ErrValidation, name)
}

// optionalDate returns nil when the query parameter is absent.
func optionalDate(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(name, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func requiredDate(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
	}
	return parseDate(name, raw)
}

// windowFromQuery reads the optional startDate/endDate pair.
func windowFromQuery(c echo.Context) (analytics.Window, error) {
	start, err := optionalDate(c, "startDate")
	if err != nil {
		return analytics.Window{}, err
	}
	end, err := optionalDate(c, "endDate")
	if err != nil {
		return analytics.Window{}, err
	}
	return analytics.Window{Start: start, End: end}, nil
}
