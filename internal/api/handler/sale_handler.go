package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salestrack/salestrack-api/internal/api/metrics"
	"github.com/salestrack/salestrack-api/internal/core/domain"
	"github.com/salestrack/salestrack-api/internal/core/ports"
)

// SaleHandler handles HTTP requests for the sales ledger.
type SaleHandler struct {
	service ports.SaleService
}

func NewSaleHandler(service ports.SaleService) *SaleHandler {
	return &SaleHandler{service: service}
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil(sales []domain.Sale) []domain.Sale {
	if sales == nil {
		return []domain.Sale{}
	}
	return sales
}

// List handles GET /api/sales.
//
// @Summary      List all sales, newest first
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Sale
// @Failure      401  {object}  map[string]string
// @Router       /api/sales [get]
func (h *SaleHandler) List(c echo.Context) error {
	sales, err := h.service.ListSales(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(sales))
}

// Get handles GET /api/sales/:id.
//
// @Summary      Get a sale by ID
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  domain.Sale
// @Failure      404  {object}  map[string]string
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c echo.Context) error {
	sale, err := h.service.GetSale(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sale)
}

// DateRange handles GET /api/sales/daterange.
//
// @Summary      List sales inside an inclusive date range
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        startDate  query     string  true  "RFC3339 or YYYY-MM-DD"
// @Param        endDate    query     string  true  "RFC3339 or YYYY-MM-DD"
// @Success      200        {array}   domain.Sale
// @Failure      400        {object}  map[string]string
// @Router       /api/sales/daterange [get]
func (h *SaleHandler) DateRange(c echo.Context) error {
	start, err := requiredDate(c, "startDate")
	if err != nil {
		return err
	}
	end, err := requiredDate(c, "endDate")
	if err != nil {
		return err
	}

	sales, err := h.service.SalesByDateRange(c.Request().Context(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(sales))
}

// ByCategory handles GET /api/sales/category/:category.
//
// @Summary      List sales of one category
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        category  path   string  true  "Category name (case-insensitive)"
// @Success      200       {array}  domain.Sale
// @Router       /api/sales/category/{category} [get]
func (h *SaleHandler) ByCategory(c echo.Context) error {
	sales, err := h.service.SalesByCategory(c.Request().Context(), c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(sales))
}

// ByRegion handles GET /api/sales/region/:region.
//
// @Summary      List sales of one region
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        region  path   string  true  "Region name (case-insensitive)"
// @Success      200     {array}  domain.Sale
// @Router       /api/sales/region/{region} [get]
func (h *SaleHandler) ByRegion(c echo.Context) error {
	sales, err := h.service.SalesByRegion(c.Request().Context(), c.Param("region"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(sales))
}

// Create handles POST /api/sales.
//
// @Summary      Record a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saleRequest  true  "Sale"
// @Success      201   {object}  domain.Sale
// @Failure      400   {object}  map[string]string
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c echo.Context) error {
	var req saleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sale, err := h.service.CreateSale(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	metrics.SalesWrittenTotal.WithLabelValues("create").Inc()

	c.Response().Header().Set(echo.HeaderLocation, "/api/sales/"+sale.ID)
	return c.JSON(http.StatusCreated, sale)
}

// Update handles PUT /api/sales/:id.
//
// @Summary      Replace a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Sale ID"
// @Param        body  body      saleRequest  true  "Sale"
// @Success      200   {object}  domain.Sale
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c echo.Context) error {
	var req saleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sale, err := h.service.UpdateSale(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	metrics.SalesWrittenTotal.WithLabelValues("update").Inc()

	return c.JSON(http.StatusOK, sale)
}

// Delete handles DELETE /api/sales/:id.
//
// @Summary      Delete a sale
// @Tags         sales
// @Security     BearerAuth
// @Param        id   path  string  true  "Sale ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteSale(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.SalesWrittenTotal.WithLabelValues("delete").Inc()

	return c.NoContent(http.StatusNoContent)
}
