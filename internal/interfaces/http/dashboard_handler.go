package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/boutique-inventory/internal/application/analytics"
	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/inventory"
)

// DashboardHandler maneja los endpoints del dashboard.
type DashboardHandler struct {
	uc        *appanalytics.DashboardUseCase
	reconcile *inventory.ReconcileUseCase
	log       zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, reconcile *inventory.ReconcileUseCase, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, reconcile: reconcile, log: log}
}

// Stats godoc
// @Summary      Estadísticas del dashboard
// @Description  Resumen, ventas por categoría, tendencia de 7 días, stock bajo, más vendidos y valor por categoría.
// @Tags         dashboard
// @Produce      json
// @Param        startDate  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Hasta (YYYY-MM-DD, inclusivo)"
// @Success      200  {object}  dto.DashboardStatsDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	var req dto.DashboardStatsRequest
	if err := c.QueryParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.uc.GetStats(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// InventoryStatus godoc
// @Summary      Estado del inventario
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.InventoryStatusDTO
// @Router       /api/dashboard/inventory-status [get]
func (h *DashboardHandler) InventoryStatus(c *fiber.Ctx) error {
	out, err := h.uc.GetInventoryStatus(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SalesAnalytics godoc
// @Summary      Ventas agrupadas por período
// @Tags         dashboard
// @Produce      json
// @Param        period  query  string  false  "Período"  Enums(week, month, year)  default(month)
// @Success      200  {object}  dto.SalesAnalyticsDTO
// @Router       /api/dashboard/sales-analytics [get]
func (h *DashboardHandler) SalesAnalytics(c *fiber.Ctx) error {
	var req dto.SalesAnalyticsRequest
	if err := c.QueryParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.uc.GetSalesAnalytics(c.UserContext(), req)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reconciliation godoc
// @Summary      Conciliación stock vs ledger
// @Description  Productos cuyo stock difiere del stock implícito en sus entradas del ledger.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.ReconciliationDTO
// @Router       /api/dashboard/reconciliation [get]
func (h *DashboardHandler) Reconciliation(c *fiber.Ctx) error {
	out, err := h.reconcile.Run(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
