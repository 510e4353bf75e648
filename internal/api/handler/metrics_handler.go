package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/salestrack/salestrack-api/internal/api/metrics"
	"github.com/salestrack/salestrack-api/internal/core/ports"
)

// MetricsHandler serves the dashboard figures under /api/metrics.
type MetricsHandler struct {
	service ports.AnalyticsService
}

func NewMetricsHandler(service ports.AnalyticsService) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// Get handles GET /api/metrics.
//
// @Summary      Sales metrics for an optional date range
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        endDate    query     string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Success      200        {object}  analytics.MetricsSummary
// @Failure      400        {object}  map[string]string
// @Failure      401        {object}  map[string]string
// @Router       /api/metrics [get]
func (h *MetricsHandler) Get(c echo.Context) error {
	w, err := windowFromQuery(c)
	if err != nil {
		return err
	}

	timer := prometheus.NewTimer(metrics.AggregationDuration.WithLabelValues("metrics"))
	defer timer.ObserveDuration()

	summary, err := h.service.Metrics(c.Request().Context(), w)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// Today handles GET /api/metrics/today.
//
// @Summary      Metrics for the current UTC day
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analytics.MetricsSummary
// @Router       /api/metrics/today [get]
func (h *MetricsHandler) Today(c echo.Context) error {
	return h.period(c, ports.PeriodToday)
}

// Week handles GET /api/metrics/week.
//
// @Summary      Metrics since the start of the current week (Sunday, UTC)
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analytics.MetricsSummary
// @Router       /api/metrics/week [get]
func (h *MetricsHandler) Week(c echo.Context) error {
	return h.period(c, ports.PeriodWeek)
}

// Month handles GET /api/metrics/month.
//
// @Summary      Metrics since the first of the current month (UTC)
// @Tags         metrics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analytics.MetricsSummary
// @Router       /api/metrics/month [get]
func (h *MetricsHandler) Month(c echo.Context) error {
	return h.period(c, ports.PeriodMonth)
}

func (h *MetricsHandler) period(c echo.Context, p ports.Period) error {
	timer := prometheus.NewTimer(metrics.AggregationDuration.WithLabelValues("period"))
	defer timer.ObserveDuration()

	summary, err := h.service.PeriodMetrics(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
