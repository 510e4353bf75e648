package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

func TestComputeChartData_SameDayDifferentTimes(t *testing.T) {
	morning := time.Date(2024, 5, 10, 0, 0, 1, 0, time.UTC)
	night := time.Date(2024, 5, 10, 23, 59, 59, 0, time.UTC)

	chart := ComputeChartData([]domain.Sale{
		sale("1", "10", "A", "N", night),
		sale("2", "5.50", "A", "N", morning),
	})

	require.Len(t, chart.ByDay, 1)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), chart.ByDay[0].Date)
	assert.Equal(t, 2, chart.ByDay[0].SalesCount)
	requireDecimal(t, "15.50", chart.ByDay[0].TotalAmount)
}

func TestComputeChartData_DayUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 21:00 local on the 1st is 02:00 UTC on the 2nd.
	late := time.Date(2024, 2, 1, 21, 0, 0, 0, loc)

	chart := ComputeChartData([]domain.Sale{sale("1", "1", "A", "N", late)})

	require.Len(t, chart.ByDay, 1)
	assert.Equal(t, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), chart.ByDay[0].Date)
}

func TestComputeChartData_TieBreakByKey(t *testing.T) {
	chart := ComputeChartData([]domain.Sale{
		sale("1", "40", "Zeta", "West", d1),
		sale("2", "40", "Alpha", "East", d1),
		sale("3", "40", "Mid", "North", d1),
		sale("4", "90", "Top", "South", d1),
	})

	cats := make([]string, 0, len(chart.ByCategory))
	for _, c := range chart.ByCategory {
		cats = append(cats, c.Category)
	}
	regs := make([]string, 0, len(chart.ByRegion))
	for _, r := range chart.ByRegion {
		regs = append(regs, r.Region)
	}
	assert.Equal(t, []string{"Top", "Alpha", "Mid", "Zeta"}, cats)
	assert.Equal(t, []string{"South", "East", "North", "West"}, regs)
}

func TestComputeChartData_DaysAscending(t *testing.T) {
	chart := ComputeChartData([]domain.Sale{
		sale("1", "1", "A", "N", d2),
		sale("2", "1", "A", "N", d1.AddDate(0, 0, -10)),
		sale("3", "1", "A", "N", d1),
	})

	require.Len(t, chart.ByDay, 3)
	for i := 1; i < len(chart.ByDay); i++ {
		assert.True(t, chart.ByDay[i-1].Date.Before(chart.ByDay[i].Date))
	}
}

func TestComputeChartData_KeysAreCaseSensitive(t *testing.T) {
	tests := []struct {
		name       string
		sales      []domain.Sale
		categories map[string]string
		regions    map[string]string
	}{
		{
			name: "differing case splits groups",
			sales: []domain.Sale{
				sale("1", "10.25", "Books", "North", d1),
				sale("2", "4.75", "books", "north", d1),
				sale("3", "20", "Books", "north", d2),
			},
			categories: map[string]string{"Books": "30.25", "books": "4.75"},
			regions:    map[string]string{"North": "10.25", "north": "24.75"},
		},
		{
			name: "surrounding whitespace is part of the key",
			sales: []domain.Sale{
				sale("1", "1", "Books", "North", d1),
				sale("2", "2", "Books ", " North", d1),
			},
			categories: map[string]string{"Books": "1", "Books ": "2"},
			regions:    map[string]string{"North": "1", " North": "2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			chart := ComputeChartData(tc.sales)
			revenue := ComputeMetrics(tc.sales).TotalRevenue

			require.Len(t, chart.ByCategory, len(tc.categories))
			catSum := decimal.Zero
			for _, c := range chart.ByCategory {
				want, ok := tc.categories[c.Category]
				require.True(t, ok, "unexpected category %q", c.Category)
				requireDecimal(t, want, c.TotalAmount)
				catSum = catSum.Add(c.TotalAmount)
			}

			require.Len(t, chart.ByRegion, len(tc.regions))
			regSum := decimal.Zero
			for _, r := range chart.ByRegion {
				want, ok := tc.regions[r.Region]
				require.True(t, ok, "unexpected region %q", r.Region)
				requireDecimal(t, want, r.TotalAmount)
				regSum = regSum.Add(r.TotalAmount)
			}

			assert.True(t, catSum.Equal(revenue), "category=%s revenue=%s", catSum, revenue)
			assert.True(t, regSum.Equal(revenue), "region=%s revenue=%s", regSum, revenue)
		})
	}
}
