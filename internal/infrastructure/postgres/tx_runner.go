package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/boutique-inventory/internal/application/inventory"
	"github.com/jhoicas/boutique-inventory/internal/application/snapshot"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and snapshot.ReadRunner.
var (
	_ inventory.TxRunner  = (*TxRunner)(nil)
	_ snapshot.ReadRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxRunner construye el runner de escritura (READ COMMITTED) con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewSnapshotRunner runner de solo lectura REPEATABLE READ: todas las consultas de fn ven
// la misma foto de catálogo y ledger.
func NewSnapshotRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}}
}

// Run inicia una transacción, ejecuta fn con catálogo y ledger atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, r.opts)
	if err != nil {
		return persistenceErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewProductRepository(tx), NewSaleRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return persistenceErr("commit transaction", err)
	}
	return nil
}
