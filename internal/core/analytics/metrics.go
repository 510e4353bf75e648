package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// currencyPlaces is the precision averages are rounded to.
const currencyPlaces = 2

// Totals is the order-independent reduction of a sale set.
type Totals struct {
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalSalesCount   int             `json:"totalSales"`
	TotalQuantity     int             `json:"totalQuantity"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
}

// MetricsSummary is Totals plus the period the figures cover.
type MetricsSummary struct {
	Totals
	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`
}

// ComputeMetrics sums revenue and quantity and derives the average order value.
// The average is zero for an empty set.
func ComputeMetrics(sales []domain.Sale) Totals {
	t := Totals{
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	for _, s := range sales {
		t.TotalRevenue = t.TotalRevenue.Add(s.Amount)
		t.TotalQuantity += s.Quantity
		t.TotalSalesCount++
	}
	if t.TotalSalesCount > 0 {
		t.AverageOrderValue = t.TotalRevenue.
			Div(decimal.NewFromInt(int64(t.TotalSalesCount))).
			Round(currencyPlaces)
	}
	return t
}
