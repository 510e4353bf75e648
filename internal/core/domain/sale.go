package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sale is an immutable snapshot of one ledger entry.
type Sale struct {
	ID                  string          `json:"id"`
	ProductName         string          `json:"productName"`
	Category            string          `json:"category"`
	Region              string          `json:"region"`
	SalesRepresentative string          `json:"salesRepresentative"`
	Quantity            int             `json:"quantity"`
	Amount              decimal.Decimal `json:"amount"`
	SaleDate            time.Time       `json:"saleDate"`
}

// Validate checks the field constraints of a sale before it is written.
func (s Sale) Validate() error {
	switch {
	case strings.TrimSpace(s.ProductName) == "":
		return fmt.Errorf("%w: productName is required", ErrValidation)
	case strings.TrimSpace(s.Category) == "":
		return fmt.Errorf("%w: category is required", ErrValidation)
	case strings.TrimSpace(s.Region) == "":
		return fmt.Errorf("%w: region is required", ErrValidation)
	case strings.TrimSpace(s.SalesRepresentative) == "":
		return fmt.Errorf("%w: salesRepresentative is required", ErrValidation)
	case s.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	case s.Amount.IsNegative():
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	case s.SaleDate.IsZero():
		return fmt.Errorf("%w: saleDate is required", ErrValidation)
	}
	return nil
}

// Normalized returns a copy with the amount rounded to currency precision and
// the sale date in UTC.
func (s Sale) Normalized() Sale {
	s.Amount = s.Amount.Round(2)
	s.SaleDate = s.SaleDate.UTC()
	return s
}
