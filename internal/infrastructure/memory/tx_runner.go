package memory

import (
	"context"

	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// TxRunner implementa inventory.TxRunner y snapshot.ReadRunner: mantiene el mutex del store
// durante fn y, si fn devuelve error, restaura la foto tomada al inicio.
type TxRunner struct {
	store *Store
}

// NewTxRunner crea el runner sobre store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repositorios que no vuelven a tomar el mutex. Ninguna otra lectura ni
// escritura del store avanza mientras fn corre.
func (t *TxRunner) Run(ctx context.Context, fn func(repository.ProductRepository, repository.SaleRepository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	before := t.store.st.snapshot()
	tx := access{store: t.store, inTx: true}
	if err := fn(&ProductRepo{tx}, &SaleRepo{tx}); err != nil {
		t.store.st = before
		return err
	}
	return nil
}
