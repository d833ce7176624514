package inventory

import "github.com/jhoicas/boutique-inventory/internal/domain/entity"

// StockDrift diferencia entre el stock registrado de un producto y el que implica su ledger.
type StockDrift struct {
	ProductID   string
	Category    string
	Name        string
	Stock       int // stock actual del catálogo
	LedgerStock int // Σ add − Σ deduct
	Drift       int // Stock − LedgerStock
}

// Reconcile compara cada producto con la suma de sus entradas en el ledger (servicio de dominio).
// Solo devuelve los productos con drift distinto de cero, en el orden recibido.
// Entradas de productos eliminados se ignoran: el ledger sobrevive al borrado.
func Reconcile(products []*entity.Product, entries []*entity.SaleEntry) []StockDrift {
	ledger := make(map[string]int, len(products))
	for _, e := range entries {
		ledger[ledgerKey(e.Category, e.ProductID)] += e.SignedQuantity()
	}
	drifts := []StockDrift{}
	for _, p := range products {
		implied := ledger[ledgerKey(p.Category, p.ID)]
		if p.Stock == implied {
			continue
		}
		drifts = append(drifts, StockDrift{
			ProductID:   p.ID,
			Category:    p.Category,
			Name:        p.Name,
			Stock:       p.Stock,
			LedgerStock: implied,
			Drift:       p.Stock - implied,
		})
	}
	return drifts
}

func ledgerKey(category, id string) string {
	return category + "/" + id
}
