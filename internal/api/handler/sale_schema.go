package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salestrack/salestrack-api/internal/core/ports"
)

// saleRequest is the body of POST and PUT /api/sales. Amount accepts a JSON
// number or a decimal string.
type saleRequest struct {
	ProductName         string          `json:"productName" validate:"required,max=200"`
	Category            string          `json:"category" validate:"required,max=100"`
	Region              string          `json:"region" validate:"required,max=100"`
	SalesRepresentative string          `json:"salesRepresentative" validate:"required,max=100"`
	Quantity            int             `json:"quantity" validate:"gte=1"`
	Amount              decimal.Decimal `json:"amount"`
	SaleDate            time.Time       `json:"saleDate"`
}

func (r saleRequest) toInput() ports.SaleInput {
	return ports.SaleInput{
		ProductName:         r.ProductName,
		Category:            r.Category,
		Region:              r.Region,
		SalesRepresentative: r.SalesRepresentative,
		Quantity:            r.Quantity,
		Amount:              r.Amount,
		SaleDate:            r.SaleDate,
	}
}
