package repository

import (
	"context"
	"time"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// SaleFilter criterios de búsqueda sobre el ledger. Campos vacíos no filtran.
// From y To son inclusivos.
type SaleFilter struct {
	From      *time.Time
	To        *time.Time
	ProductID string
}

// SaleRepository define el puerto del ledger de ventas: solo inserción y lectura.
type SaleRepository interface {
	Append(ctx context.Context, entry *entity.SaleEntry) error
	// List devuelve las entradas que cumplen el filtro, la más reciente primero.
	List(ctx context.Context, filter SaleFilter) ([]*entity.SaleEntry, error)
}
