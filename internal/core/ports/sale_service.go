package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salestrack/salestrack-api/internal/core/domain"
)

// SaleInput carries the writable fields of a sale.
type SaleInput struct {
	ProductName         string
	Category            string
	Region              string
	SalesRepresentative string
	Quantity            int
	Amount              decimal.Decimal
	SaleDate            time.Time
}

// SaleService defines use-case operations on the sales ledger.
type SaleService interface {
	ListSales(ctx context.Context) ([]domain.Sale, error)
	GetSale(ctx context.Context, id string) (*domain.Sale, error)
	SalesByDateRange(ctx context.Context, start, end time.Time) ([]domain.Sale, error)
	SalesByCategory(ctx context.Context, category string) ([]domain.Sale, error)
	SalesByRegion(ctx context.Context, region string) ([]domain.Sale, error)
	CreateSale(ctx context.Context, input SaleInput) (*domain.Sale, error)
	UpdateSale(ctx context.Context, id string, input SaleInput) (*domain.Sale, error)
	DeleteSale(ctx context.Context, id string) error
}
