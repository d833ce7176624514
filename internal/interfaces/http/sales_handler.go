package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/sales"
)

// SalesHandler expone el ledger de movimientos.
type SalesHandler struct {
	uc  *sales.LedgerUseCase
	log zerolog.Logger
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.LedgerUseCase, log zerolog.Logger) *SalesHandler {
	return &SalesHandler{uc: uc, log: log}
}

// Logs godoc
// @Summary      Consultar el ledger de ventas
// @Description  Entradas add/deduct, de la más reciente a la más antigua. end es inclusivo (hasta el final del día).
// @Tags         sales
// @Produce      json
// @Param        start      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        productId  query  string  false  "Filtrar por producto"
// @Success      200  {array}   dto.SaleEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/logs [get]
func (h *SalesHandler) Logs(c *fiber.Ctx) error {
	var req dto.SalesLogRequest
	if err := c.QueryParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListLogs(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Exportar el ledger de ventas en PDF
// @Tags         sales
// @Produce      application/pdf
// @Param        start      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end        query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        productId  query  string  false  "Filtrar por producto"
// @Success      200  {file}    file
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/logs/report [get]
func (h *SalesHandler) Report(c *fiber.Ctx) error {
	var req dto.SalesLogRequest
	if err := c.QueryParser(&req); err != nil {
		return badBody(c)
	}
	pdf, filename, err := h.uc.ExportReport(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
