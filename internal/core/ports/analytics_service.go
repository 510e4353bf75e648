package ports

import (
	"context"

	"github.com/salestrack/salestrack-api/internal/core/analytics"
)

// Period names a server-computed metrics window.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// AnalyticsService fetches sales for a window and runs the aggregation engine.
type AnalyticsService interface {
	Metrics(ctx context.Context, window analytics.Window) (*analytics.MetricsSummary, error)
	PeriodMetrics(ctx context.Context, period Period) (*analytics.MetricsSummary, error)
	Charts(ctx context.Context, window analytics.Window) (*analytics.ChartData, error)
}
