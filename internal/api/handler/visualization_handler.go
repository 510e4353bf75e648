package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/salestrack/salestrack-api/internal/api/metrics"
	"github.com/salestrack/salestrack-api/internal/core/analytics"
	"github.com/salestrack/salestrack-api/internal/core/ports"
)

// VisualizationHandler serves chart-ready groupings under /api/visualization.
type VisualizationHandler struct {
	service ports.AnalyticsService
}

func NewVisualizationHandler(service ports.AnalyticsService) *VisualizationHandler {
	return &VisualizationHandler{service: service}
}

func (h *VisualizationHandler) chart(c echo.Context) (*analytics.ChartData, error) {
	w, err := windowFromQuery(c)
	if err != nil {
		return nil, err
	}

	timer := prometheus.NewTimer(metrics.AggregationDuration.WithLabelValues("charts"))
	defer timer.ObserveDuration()

	return h.service.Charts(c.Request().Context(), w)
}

// Charts handles GET /api/visualization/charts.
//
// @Summary      All chart groupings for an optional date range
// @Tags         visualization
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        endDate    query     string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Success      200        {object}  analytics.ChartData
// @Failure      400        {object}  map[string]string
// @Router       /api/visualization/charts [get]
func (h *VisualizationHandler) Charts(c echo.Context) error {
	data, err := h.chart(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

// ByCategory handles GET /api/visualization/by-category.
//
// @Summary      Sales grouped by category, largest total first
// @Tags         visualization
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query    string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        endDate    query    string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Success      200        {array}  analytics.CategoryAggregate
// @Router       /api/visualization/by-category [get]
func (h *VisualizationHandler) ByCategory(c echo.Context) error {
	data, err := h.chart(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data.ByCategory)
}

// ByRegion handles GET /api/visualization/by-region.
//
// @Summary      Sales grouped by region, largest total first
// @Tags         visualization
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query    string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        endDate    query    string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Success      200        {array}  analytics.RegionAggregate
// @Router       /api/visualization/by-region [get]
func (h *VisualizationHandler) ByRegion(c echo.Context) error {
	data, err := h.chart(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data.ByRegion)
}

// TimeSeries handles GET /api/visualization/time-series.
//
// @Summary      Sales per UTC day, oldest first
// @Tags         visualization
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query    string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Param        endDate    query    string  false  "RFC3339 or YYYY-MM-DD, inclusive"
// @Success      200        {array}  analytics.DayAggregate
// @Router       /api/visualization/time-series [get]
func (h *VisualizationHandler) TimeSeries(c echo.Context) error {
	data, err := h.chart(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data.ByDay)
}
