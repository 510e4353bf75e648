package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/salestrack/salestrack-api/internal/core/analytics"
	"github.com/salestrack/salestrack-api/internal/core/domain"
	"github.com/salestrack/salestrack-api/internal/core/ports"
)

// AnalyticsService loads the sales of a window from the store and hands them to
// the aggregation engine. The store already filters by date; the engine filters
// again so its inclusive-bound rule is the one that applies.
type AnalyticsService struct {
	repo   ports.SaleRepository
	engine *analytics.Engine
	clock  analytics.Clock
	log    zerolog.Logger
}

func NewAnalyticsService(repo ports.SaleRepository, clock analytics.Clock, log zerolog.Logger) *AnalyticsService {
	if clock == nil {
		clock = analytics.SystemClock{}
	}
	return &AnalyticsService{
		repo:   repo,
		engine: analytics.NewEngine(clock),
		clock:  clock,
		log:    log,
	}
}

func (s *AnalyticsService) Metrics(ctx context.Context, w analytics.Window) (*analytics.MetricsSummary, error) {
	sales, err := s.fetch(ctx, w)
	if err != nil {
		return nil, err
	}
	m := s.engine.Metrics(sales, w)
	return &m, nil
}

// PeriodMetrics computes metrics for a window derived from the clock.
func (s *AnalyticsService) PeriodMetrics(ctx context.Context, period ports.Period) (*analytics.MetricsSummary, error) {
	now := s.clock.Now()

	var w analytics.Window
	switch period {
	case ports.PeriodToday:
		w = analytics.Today(now)
	case ports.PeriodWeek:
		w = analytics.ThisWeek(now)
	case ports.PeriodMonth:
		w = analytics.ThisMonth(now)
	default:
		return nil, fmt.Errorf("%w: unknown period %q", domain.ErrValidation, period)
	}
	return s.Metrics(ctx, w)
}

func (s *AnalyticsService) Charts(ctx context.Context, w analytics.Window) (*analytics.ChartData, error) {
	sales, err := s.fetch(ctx, w)
	if err != nil {
		return nil, err
	}
	c := s.engine.Chart(sales, w)
	return &c, nil
}

func (s *AnalyticsService) fetch(ctx context.Context, w analytics.Window) ([]domain.Sale, error) {
	if w.Start != nil && w.End != nil && w.End.Before(*w.Start) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", domain.ErrValidation)
	}

	sales, err := s.repo.FetchSales(ctx, w.Start, w.End)
	if err != nil {
		return nil, fmt.Errorf("fetch sales: %w", err)
	}
	s.log.Debug().Int("sales", len(sales)).Msg("sales fetched for aggregation")
	return sales, nil
}
