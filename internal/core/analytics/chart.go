package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// CategoryAggregate totals the sales sharing one category.
type CategoryAggregate struct {
	Category    string          `json:"category"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	SalesCount  int             `json:"salesCount"`
}

// RegionAggregate totals the sales sharing one region.
type RegionAggregate struct {
	Region      string          `json:"region"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	SalesCount  int             `json:"salesCount"`
}

// DayAggregate totals the sales made on one UTC calendar day.
type DayAggregate struct {
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	SalesCount  int             `json:"salesCount"`
}

// ChartData bundles the three groupings.
type ChartData struct {
	ByCategory []CategoryAggregate `json:"salesByCategory"`
	ByRegion   []RegionAggregate   `json:"salesByRegion"`
	ByDay      []DayAggregate      `json:"salesOverTime"`
}

type bucket struct {
	total decimal.Decimal
	count int
}

// ComputeChartData groups sales by category, region and day.
//
// Category and region keys compare by exact string equality. Both lists are
// ordered by descending total, with ties broken by ascending key. Days are
// truncated to UTC midnight and listed oldest first.
func ComputeChartData(sales []domain.Sale) ChartData {
	byCategory := groupBy(sales, func(s domain.Sale) string { return s.Category })
	byRegion := groupBy(sales, func(s domain.Sale) string { return s.Region })
	byDay := groupBy(sales, func(s domain.Sale) time.Time { return midnightUTC(s.SaleDate) })

	out := ChartData{
		ByCategory: make([]CategoryAggregate, 0, len(byCategory)),
		ByRegion:   make([]RegionAggregate, 0, len(byRegion)),
		ByDay:      make([]DayAggregate, 0, len(byDay)),
	}
	for k, b := range byCategory {
		out.ByCategory = append(out.ByCategory, CategoryAggregate{Category: k, TotalAmount: b.total, SalesCount: b.count})
	}
	for k, b := range byRegion {
		out.ByRegion = append(out.ByRegion, RegionAggregate{Region: k, TotalAmount: b.total, SalesCount: b.count})
	}
	for k, b := range byDay {
		out.ByDay = append(out.ByDay, DayAggregate{Date: k, TotalAmount: b.total, SalesCount: b.count})
	}

	slices.SortFunc(out.ByCategory, func(a, b CategoryAggregate) int {
		return byTotalDesc(a.TotalAmount, b.TotalAmount, a.Category, b.Category)
	})
	slices.SortFunc(out.ByRegion, func(a, b RegionAggregate) int {
		return byTotalDesc(a.TotalAmount, b.TotalAmount, a.Region, b.Region)
	})
	slices.SortFunc(out.ByDay, func(a, b DayAggregate) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func groupBy[K comparable](sales []domain.Sale, key func(domain.Sale) K) map[K]*bucket {
	groups := make(map[K]*bucket)
	for _, s := range sales {
		k := key(s)
		b, ok := groups[k]
		if !ok {
			b = &bucket{total: decimal.Zero}
			groups[k] = b
		}
		b.total = b.total.Add(s.Amount)
		b.count++
	}
	return groups
}

func byTotalDesc(aTotal, bTotal decimal.Decimal, aKey, bKey string) int {
	if c := bTotal.Cmp(aTotal); c != 0 {
		return c
	}
	return cmp.Compare(aKey, bKey)
}
