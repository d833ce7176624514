package memory

import (
	"context"
	"time"

	"github.com/jhoicas/boutique-inventory/internal/domain"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// ProductRepo implementación en memoria de repository.ProductRepository.
type ProductRepo struct {
	access
}

// NewProductRepo crea el repositorio sobre store.
func NewProductRepo(store *Store) *ProductRepo {
	return &ProductRepo{access{store: store}}
}

// Create agrega el producto al final de su categoría.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	if !entity.IsValidCategory(p.Category) {
		return domain.ErrValidation
	}
	return r.do(func(st *state) error {
		st.products[p.Category] = append(st.products[p.Category], p.Clone())
		return nil
	})
}

// GetByID devuelve una copia; domain.ErrNotFound si el id no está en la categoría.
func (r *ProductRepo) GetByID(ctx context.Context, category, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(st *state) error {
		i := indexOf(st.products[category], id)
		if i < 0 {
			return domain.ErrNotFound
		}
		out = st.products[category][i].Clone()
		return nil
	})
	return out, err
}

// GetForUpdate dentro de TxRunner el mutex ya bloquea todo el store hasta el fin de la unidad.
func (r *ProductRepo) GetForUpdate(ctx context.Context, category, id string) (*entity.Product, error) {
	return r.GetByID(ctx, category, id)
}

// List devuelve una página en orden de inserción; limit <= 0 lee hasta el final.
func (r *ProductRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.do(func(st *state) error {
		list := st.products[category]
		if offset >= len(list) {
			return nil
		}
		end := offset + limit
		if end > len(list) || limit <= 0 {
			end = len(list)
		}
		out = cloneAll(list[offset:end])
		return nil
	})
	return out, err
}

// ListAll devuelve copias de toda la categoría.
func (r *ProductRepo) ListAll(ctx context.Context, category string) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.do(func(st *state) error {
		out = cloneAll(st.products[category])
		return nil
	})
	return out, err
}

// Count número de productos de la categoría.
func (r *ProductRepo) Count(ctx context.Context, category string) (int, error) {
	var n int
	err := r.do(func(st *state) error {
		n = len(st.products[category])
		return nil
	})
	return n, err
}

// Update reemplaza el producto completo; domain.ErrNotFound si no existe.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.do(func(st *state) error {
		i := indexOf(st.products[p.Category], p.ID)
		if i < 0 {
			return domain.ErrNotFound
		}
		st.products[p.Category][i] = p.Clone()
		return nil
	})
}

// AdjustStock compara y aplica bajo el mutex: nunca deja stock negativo.
func (r *ProductRepo) AdjustStock(ctx context.Context, category, id string, delta int) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(st *state) error {
		i := indexOf(st.products[category], id)
		if i < 0 {
			return domain.ErrNotFound
		}
		p := st.products[category][i].Clone()
		if p.Stock+delta < 0 {
			return domain.ErrInsufficientStock
		}
		p.Stock += delta
		p.UpdatedAt = time.Now()
		st.products[category][i] = p
		out = p.Clone()
		return nil
	})
	return out, err
}

// Delete quita el producto conservando el orden del resto.
func (r *ProductRepo) Delete(ctx context.Context, category, id string) error {
	return r.do(func(st *state) error {
		list := st.products[category]
		i := indexOf(list, id)
		if i < 0 {
			return domain.ErrNotFound
		}
		next := make([]*entity.Product, 0, len(list)-1)
		next = append(next, list[:i]...)
		st.products[category] = append(next, list[i+1:]...)
		return nil
	})
}

func indexOf(list []*entity.Product, id string) int {
	for i, p := range list {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(list []*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		out = append(out, p.Clone())
	}
	return out
}
