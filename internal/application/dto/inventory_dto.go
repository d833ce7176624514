package dto

import (
	"time"

	"github.com/jhoicas/boutique-inventory/internal/domain/inventory"
)

// StockAdjustRequest body para POST /api/{category}/:id/add y /deduct.
// Quantity acepta número o texto; debe resolver a un entero positivo.
type StockAdjustRequest struct {
	Quantity any `json:"quantity" swaggertype:"integer"`
}

// StockChangeResponse resultado de un movimiento de stock auditado.
type StockChangeResponse struct {
	Message string            `json:"message"`
	Stock   int               `json:"stock"`
	Data    ProductResponse   `json:"data"`
	Entry   SaleEntryResponse `json:"entry"`
}

// StockDriftDTO producto cuyo stock no coincide con su ledger.
type StockDriftDTO struct {
	ProductID   string `json:"productId"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Stock       int    `json:"stock"`
	LedgerStock int    `json:"ledgerStock"`
	Drift       int    `json:"drift"`
}

// ReconciliationDTO respuesta de GET /api/dashboard/reconciliation.
type ReconciliationDTO struct {
	CheckedAt       time.Time       `json:"checkedAt"`
	ProductsChecked int             `json:"productsChecked"`
	Consistent      bool            `json:"consistent"`
	Drifts          []StockDriftDTO `json:"drifts"`
}

// NewReconciliationDTO mapea el resultado de inventory.Reconcile.
func NewReconciliationDTO(checkedAt time.Time, productsChecked int, drifts []inventory.StockDrift) ReconciliationDTO {
	out := ReconciliationDTO{
		CheckedAt:       checkedAt,
		ProductsChecked: productsChecked,
		Consistent:      len(drifts) == 0,
		Drifts:          make([]StockDriftDTO, 0, len(drifts)),
	}
	for _, d := range drifts {
		out.Drifts = append(out.Drifts, StockDriftDTO{
			ProductID:   d.ProductID,
			Category:    d.Category,
			Name:        d.Name,
			Stock:       d.Stock,
			LedgerStock: d.LedgerStock,
			Drift:       d.Drift,
		})
	}
	return out
}
