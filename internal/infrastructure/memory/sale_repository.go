package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// SaleRepo implementación en memoria de repository.SaleRepository (append-only).
type SaleRepo struct {
	access
}

// NewSaleRepo crea el ledger sobre store.
func NewSaleRepo(store *Store) *SaleRepo {
	return &SaleRepo{access{store: store}}
}

// Append guarda una copia de la entrada al final del ledger.
func (r *SaleRepo) Append(ctx context.Context, e *entity.SaleEntry) error {
	cp := *e
	return r.do(func(st *state) error {
		st.sales = append(st.sales, &cp)
		return nil
	})
}

// List devuelve copias filtradas, la más reciente primero (empates: la última insertada primero).
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.SaleEntry, error) {
	out := []*entity.SaleEntry{}
	err := r.do(func(st *state) error {
		for i := len(st.sales) - 1; i >= 0; i-- {
			e := st.sales[i]
			if f.ProductID != "" && e.ProductID != f.ProductID {
				continue
			}
			if f.From != nil && e.Date.Before(*f.From) {
				continue
			}
			if f.To != nil && e.Date.After(*f.To) {
				continue
			}
			cp := *e
			out = append(out, &cp)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, err
}
