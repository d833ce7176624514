// Package memory implementa los puertos de catálogo y ledger en memoria del proceso.
// Un único mutex serializa todas las escrituras; TxRunner lo mantiene durante toda la
// unidad de trabajo y restaura la foto previa si la función falla.
package memory

import (
	"sync"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// Store contenedor compartido por ProductRepo, SaleRepo y TxRunner.
type Store struct {
	mu sync.Mutex
	st state
}

// state los productos se guardan inmutables: toda escritura reemplaza el puntero por una copia,
// así una copia superficial de los slices es una foto válida.
type state struct {
	products map[string][]*entity.Product // categoría -> orden de inserción
	sales    []*entity.SaleEntry          // orden de inserción
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	s := &Store{st: state{products: make(map[string][]*entity.Product, 3)}}
	for _, c := range entity.Categories() {
		s.st.products[c] = nil
	}
	return s
}

func (s state) snapshot() state {
	out := state{
		products: make(map[string][]*entity.Product, len(s.products)),
		sales:    append([]*entity.SaleEntry(nil), s.sales...),
	}
	for c, list := range s.products {
		out.products[c] = append([]*entity.Product(nil), list...)
	}
	return out
}

// access ejecuta fn sobre el estado; toma el mutex salvo que el caller ya lo tenga (tx).
type access struct {
	store *Store
	inTx  bool
}

func (a access) do(fn func(st *state) error) error {
	if !a.inTx {
		a.store.mu.Lock()
		defer a.store.mu.Unlock()
	}
	return fn(&a.store.st)
}
