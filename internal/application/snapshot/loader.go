// Package snapshot carga la foto completa del catálogo (las tres categorías) y del ledger
// que consumen el dashboard y la conciliación.
package snapshot

import (
	"context"
	"fmt"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// Snapshot productos en orden canónico (shoes, bags, dresses; cada una en orden de inserción)
// y entradas del ledger (la más reciente primero).
type Snapshot struct {
	Products []*entity.Product
	Entries  []*entity.SaleEntry
}

// ReadRunner ejecuta fn sobre una vista consistente de catálogo y ledger
// (transacción REPEATABLE READ en Postgres, el mutex del store en memoria).
type ReadRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// Loader lee catálogo y ledger en paralelo, o dentro de un ReadRunner si se configuró uno.
type Loader struct {
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	reads       ReadRunner
}

// NewLoader construye el cargador.
func NewLoader(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *Loader {
	return &Loader{productRepo: productRepo, saleRepo: saleRepo}
}

// WithConsistentReads hace que Load lea catálogo y ledger dentro de reads, en serie.
// Sin él, una mutación concurrente puede quedar a medias entre las dos lecturas.
func (l *Loader) WithConsistentReads(reads ReadRunner) *Loader {
	l.reads = reads
	return l
}

// Load lee todos los productos y las entradas que cumplen filter.
func (l *Loader) Load(ctx context.Context, filter repository.SaleFilter) (*Snapshot, error) {
	if l.reads != nil {
		return l.loadConsistent(ctx, filter)
	}
	type entriesResult struct {
		entries []*entity.SaleEntry
		err     error
	}
	entriesCh := make(chan entriesResult, 1)
	go func() {
		entries, err := l.Entries(ctx, filter)
		entriesCh <- entriesResult{entries, err}
	}()

	products, err := l.Products(ctx)
	entries := <-entriesCh
	if err != nil {
		return nil, err
	}
	if entries.err != nil {
		return nil, entries.err
	}
	return &Snapshot{Products: products, Entries: entries.entries}, nil
}

// loadConsistent una transacción no admite consultas concurrentes: se lee en serie.
func (l *Loader) loadConsistent(ctx context.Context, filter repository.SaleFilter) (*Snapshot, error) {
	snap := &Snapshot{}
	err := l.reads.Run(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		for _, c := range entity.Categories() {
			products, err := productRepo.ListAll(ctx, c)
			if err != nil {
				return fmt.Errorf("snapshot: %s: %w", c, err)
			}
			snap.Products = append(snap.Products, products...)
		}
		entries, err := saleRepo.List(ctx, filter)
		if err != nil {
			return fmt.Errorf("snapshot: ledger: %w", err)
		}
		snap.Entries = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Entries lee solo el ledger.
func (l *Loader) Entries(ctx context.Context, filter repository.SaleFilter) ([]*entity.SaleEntry, error) {
	entries, err := l.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("snapshot: ledger: %w", err)
	}
	return entries, nil
}

// Products lee las tres categorías en paralelo y las concatena en orden canónico.
func (l *Loader) Products(ctx context.Context) ([]*entity.Product, error) {
	type categoryResult struct {
		products []*entity.Product
		err      error
	}
	categories := entity.Categories()
	chans := make([]chan categoryResult, len(categories))
	for i, c := range categories {
		ch := make(chan categoryResult, 1)
		chans[i] = ch
		go func(category string) {
			products, err := l.productRepo.ListAll(ctx, category)
			ch <- categoryResult{products, err}
		}(c)
	}

	var (
		all      []*entity.Product
		firstErr error
	)
	for i, ch := range chans {
		res := <-ch
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("snapshot: %s: %w", categories[i], res.err)
		}
		all = append(all, res.products...)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return all, nil
}
