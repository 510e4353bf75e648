package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salestrack/salestrack-api/internal/core/domain"
	"github.com/salestrack/salestrack-api/internal/core/ports"
)

type SaleService struct {
	repo   ports.SaleRepository
	logger zerolog.Logger
}

func NewSaleService(repo ports.SaleRepository, logger zerolog.Logger) *SaleService {
	return &SaleService{repo: repo, logger: logger}
}

func (s *SaleService) ListSales(ctx context.Context) ([]domain.Sale, error) {
	return s.repo.List(ctx)
}

func (s *SaleService) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	return s.repo.FindByID(ctx, id)
}

// SalesByDateRange returns the sales in [start, end], newest first.
func (s *SaleService) SalesByDateRange(ctx context.Context, start, end time.Time) ([]domain.Sale, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: endDate must not be before startDate", domain.ErrValidation)
	}
	sales, err := s.repo.FetchSales(ctx, &start, &end)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(sales)
	return sales, nil
}

func (s *SaleService) SalesByCategory(ctx context.Context, category string) ([]domain.Sale, error) {
	return s.repo.FindByCategory(ctx, category)
}

func (s *SaleService) SalesByRegion(ctx context.Context, region string) ([]domain.Sale, error) {
	return s.repo.FindByRegion(ctx, region)
}

// CreateSale validates the input and stores it under a fresh ID.
func (s *SaleService) CreateSale(ctx context.Context, input ports.SaleInput) (*domain.Sale, error) {
	sale := fromInput(uuid.NewString(), input)
	if err := sale.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sale); err != nil {
		s.logger.Error().Err(err).Msg("failed to create sale")
		return nil, err
	}

	s.logger.Info().Str("sale_id", sale.ID).Str("category", sale.Category).Msg("sale created")
	return &sale, nil
}

// UpdateSale replaces every field of an existing sale.
func (s *SaleService) UpdateSale(ctx context.Context, id string, input ports.SaleInput) (*domain.Sale, error) {
	sale := fromInput(id, input)
	if err := sale.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sale); err != nil {
		return nil, err
	}

	s.logger.Info().Str("sale_id", id).Msg("sale updated")
	return &sale, nil
}

func (s *SaleService) DeleteSale(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("sale_id", id).Msg("sale deleted")
	return nil
}

func fromInput(id string, in ports.SaleInput) domain.Sale {
	return domain.Sale{
		ID:                  id,
		ProductName:         in.ProductName,
		Category:            in.Category,
		Region:              in.Region,
		SalesRepresentative: in.SalesRepresentative,
		Quantity:            in.Quantity,
		Amount:              in.Amount,
		SaleDate:            in.SaleDate,
	}.Normalized()
}

func sortNewestFirst(sales []domain.Sale) {
	slices.SortStableFunc(sales, func(a, b domain.Sale) int {
		return b.SaleDate.Compare(a.SaleDate)
	})
}
