package ports

import (
	"context"
	"time"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// SaleRepository defines persistence operations for sales. Every read returns
// value snapshots; callers never observe later writes through them.
type SaleRepository interface {
	// FetchSales returns the sales whose date lies in [start, end]. A nil bound is open.
	// Order is unspecified.
	FetchSales(ctx context.Context, start, end *time.Time) ([]domain.Sale, error)

	// List returns every sale, newest first.
	List(ctx context.Context) ([]domain.Sale, error)
	FindByID(ctx context.Context, id string) (*domain.Sale, error)
	// FindByCategory and FindByRegion match case-insensitively, newest first.
	FindByCategory(ctx context.Context, category string) ([]domain.Sale, error)
	FindByRegion(ctx context.Context, region string) ([]domain.Sale, error)

	Create(ctx context.Context, sale domain.Sale) error
	// Update replaces every field of the sale with the given ID in one write.
	Update(ctx context.Context, sale domain.Sale) error
	Delete(ctx context.Context, id string) error
}
