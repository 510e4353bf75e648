// Package analytics reduces sale snapshots into period metrics and chart
// groupings. Everything here is a pure function of its inputs, apart from the
// injected clock used when a period has neither a bound nor any data.
package analytics

import (
	"time"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// Result pairs the metrics and chart data for one window.
type Result struct {
	Metrics MetricsSummary `json:"metrics"`
	Chart   ChartData      `json:"chart"`
}

// Engine filters sales by window and delegates to ComputeMetrics and
// ComputeChartData. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	clock Clock
}

func NewEngine(clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{clock: clock}
}

// Aggregate computes both metrics and chart data for the sales inside w.
func (e *Engine) Aggregate(sales []domain.Sale, w Window) Result {
	filtered := Filter(sales, w)
	return Result{
		Metrics: e.summarize(filtered, w),
		Chart:   ComputeChartData(filtered),
	}
}

// Metrics computes only the metrics summary for the sales inside w.
func (e *Engine) Metrics(sales []domain.Sale, w Window) MetricsSummary {
	return e.summarize(Filter(sales, w), w)
}

// Chart computes only the chart groupings for the sales inside w.
func (e *Engine) Chart(sales []domain.Sale, w Window) ChartData {
	return ComputeChartData(Filter(sales, w))
}

// Filter returns the sales whose date lies inside w. The input is not modified.
func Filter(sales []domain.Sale, w Window) []domain.Sale {
	out := make([]domain.Sale, 0, len(sales))
	for _, s := range sales {
		if w.Contains(s.SaleDate) {
			out = append(out, s)
		}
	}
	return out
}

// summarize resolves the period bounds: the caller's bound when given, else the
// earliest/latest sale date, else the clock. The clock fallback only applies to
// an empty, unbounded query and carries no business meaning.
func (e *Engine) summarize(filtered []domain.Sale, w Window) MetricsSummary {
	summary := MetricsSummary{Totals: ComputeMetrics(filtered)}

	var minDate, maxDate time.Time
	for i, s := range filtered {
		if i == 0 || s.SaleDate.Before(minDate) {
			minDate = s.SaleDate
		}
		if i == 0 || s.SaleDate.After(maxDate) {
			maxDate = s.SaleDate
		}
	}

	switch {
	case w.Start != nil:
		summary.PeriodStart = *w.Start
	case len(filtered) > 0:
		summary.PeriodStart = minDate
	default:
		summary.PeriodStart = e.clock.Now()
	}

	switch {
	case w.End != nil:
		summary.PeriodEnd = *w.End
	case len(filtered) > 0:
		summary.PeriodEnd = maxDate
	default:
		summary.PeriodEnd = e.clock.Now()
	}
	return summary
}
