package inventory

import (
	"context"

	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo, pasando repositorios atados a ella.
// Si fn devuelve error no queda visible ninguna de sus escrituras: catálogo y ledger se
// confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
