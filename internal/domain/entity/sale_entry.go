package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de entrada del ledger de ventas.
const (
	SaleTypeAdd    = "add"    // reposición: aumenta stock
	SaleTypeDeduct = "deduct" // venta: disminuye stock
)

// SaleEntry registro inmutable del ledger. Nombre, categoría y precio se desnormalizan
// al momento de escribir; ProductID es una referencia débil (sobrevive al borrado del producto).
type SaleEntry struct {
	ID        string
	ProductID string
	Category  string
	Name      string
	Quantity  int             // siempre > 0
	Price     decimal.Decimal // precio unitario al momento de la operación
	Total     decimal.Decimal // Quantity × Price
	Type      string          // add, deduct
	Date      time.Time
}

// NewSaleEntry construye la entrada del ledger para un cambio de stock sobre p.
// El total es siempre price × quantity, también para las entradas de tipo add.
func NewSaleEntry(id string, p *Product, saleType string, quantity int, now time.Time) *SaleEntry {
	return &SaleEntry{
		ID:        id,
		ProductID: p.ID,
		Category:  p.Category,
		Name:      p.Name,
		Quantity:  quantity,
		Price:     p.Price,
		Total:     p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Type:      saleType,
		Date:      now,
	}
}

// SignedQuantity devuelve +Quantity para add y -Quantity para deduct.
func (e *SaleEntry) SignedQuantity() int {
	if e.Type == SaleTypeDeduct {
		return -e.Quantity
	}
	return e.Quantity
}
