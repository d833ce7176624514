package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// SalesLogRequest parámetros para GET /api/sales/logs y /api/sales/logs/report.
type SalesLogRequest struct {
	Start     string `query:"start"` // YYYY-MM-DD, inclusivo
	End       string `query:"end"`   // YYYY-MM-DD, inclusivo hasta el final del día
	ProductID string `query:"productId"`
}

// SaleEntryResponse salida de una entrada del ledger.
type SaleEntryResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Category  string          `json:"category"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
	Type      string          `json:"type"`
	Date      time.Time       `json:"date"`
}

// NewSaleEntryResponse mapea la entidad a su representación JSON.
func NewSaleEntryResponse(e *entity.SaleEntry) SaleEntryResponse {
	return SaleEntryResponse{
		ID:        e.ID,
		ProductID: e.ProductID,
		Category:  e.Category,
		Name:      e.Name,
		Quantity:  e.Quantity,
		Price:     e.Price,
		Total:     e.Total,
		Type:      e.Type,
		Date:      e.Date,
	}
}

// NewSaleEntryResponses mapea una lista; nunca devuelve nil.
func NewSaleEntryResponses(entries []*entity.SaleEntry) []SaleEntryResponse {
	out := make([]SaleEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewSaleEntryResponse(e))
	}
	return out
}
