package repository

import (
	"context"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo (DIP).
// Todas las operaciones están acotadas a una categoría: un id de otra categoría no resuelve.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve domain.ErrNotFound si el id no existe en la categoría.
	GetByID(ctx context.Context, category, id string) (*entity.Product, error)
	// GetForUpdate es GetByID bloqueando la fila hasta el fin de la unidad de trabajo.
	// Solo tiene sentido sobre el repositorio que entrega TxRunner.
	GetForUpdate(ctx context.Context, category, id string) (*entity.Product, error)
	// List devuelve una página en orden de inserción.
	List(ctx context.Context, category string, limit, offset int) ([]*entity.Product, error)
	// ListAll devuelve todos los productos de la categoría en orden de inserción.
	ListAll(ctx context.Context, category string) ([]*entity.Product, error)
	Count(ctx context.Context, category string) (int, error)
	// Update sobrescribe todos los campos editables, stock incluido (override administrativo).
	Update(ctx context.Context, product *entity.Product) error
	// AdjustStock aplica delta al stock de forma atómica y condicionada a que el resultado sea >= 0.
	// Devuelve domain.ErrNotFound o domain.ErrInsufficientStock sin modificar nada.
	AdjustStock(ctx context.Context, category, id string, delta int) (*entity.Product, error)
	Delete(ctx context.Context, category, id string) error
}
