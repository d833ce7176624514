package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/boutique-inventory/internal/application/analytics"
	"github.com/jhoicas/boutique-inventory/internal/application/catalog"
	"github.com/jhoicas/boutique-inventory/internal/application/inventory"
	"github.com/jhoicas/boutique-inventory/internal/application/sales"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC   *catalog.CatalogUseCase
	StockUC     *inventory.StockUseCase
	LedgerUC    *sales.LedgerUseCase
	DashboardUC *appanalytics.DashboardUseCase
	ReconcileUC *inventory.ReconcileUseCase
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	ledger := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.LedgerUC, deps.Log)
	ledger.Get("/logs", salesHandler.Logs)
	ledger.Get("/logs/report", salesHandler.Report)

	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.ReconcileUC, deps.Log)
	dashboard.Get("/stats", dashboardHandler.Stats)
	dashboard.Get("/inventory-status", dashboardHandler.InventoryStatus)
	dashboard.Get("/sales-analytics", dashboardHandler.SalesAnalytics)
	dashboard.Get("/reconciliation", dashboardHandler.Reconciliation)

	// Una familia de rutas idéntica por categoría
	for _, category := range entity.Categories() {
		group := api.Group("/" + category)
		h := NewProductHandler(category, deps.CatalogUC, deps.StockUC, deps.Log)
		group.Get("/", h.List)
		group.Get("/grouped", h.Grouped)
		group.Get("/:id", h.GetByID)
		group.Post("/", h.Create)
		group.Put("/:id", h.Update)
		group.Delete("/:id", h.Delete)
		group.Post("/:id/add", h.AddStock)
		group.Post("/:id/deduct", h.DeductStock)
	}
}
