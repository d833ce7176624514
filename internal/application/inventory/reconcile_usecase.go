package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/snapshot"
	"github.com/jhoicas/boutique-inventory/internal/domain/inventory"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// ReconcileUseCase compara el stock de cada producto con el que implica su historial en el ledger.
// Solo reporta: nunca corrige el stock.
type ReconcileUseCase struct {
	loader *snapshot.Loader
	log    zerolog.Logger
	now    func() time.Time
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(loader *snapshot.Loader, log zerolog.Logger) *ReconcileUseCase {
	return &ReconcileUseCase{loader: loader, log: log, now: time.Now}
}

// Run devuelve el reporte de conciliación sobre el ledger completo.
func (uc *ReconcileUseCase) Run(ctx context.Context) (*dto.ReconciliationDTO, error) {
	snap, err := uc.loader.Load(ctx, repository.SaleFilter{})
	if err != nil {
		return nil, err
	}
	drifts := inventory.Reconcile(snap.Products, snap.Entries)
	out := dto.NewReconciliationDTO(uc.now(), len(snap.Products), drifts)
	return &out, nil
}

// RunAndLog ejecuta la conciliación y registra cada diferencia en nivel warn (job programado).
func (uc *ReconcileUseCase) RunAndLog(ctx context.Context) {
	report, err := uc.Run(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("conciliación stock/ledger fallida")
		return
	}
	for _, d := range report.Drifts {
		uc.log.Warn().
			Str("category", d.Category).
			Str("product_id", d.ProductID).
			Str("name", d.Name).
			Int("stock", d.Stock).
			Int("ledger_stock", d.LedgerStock).
			Int("drift", d.Drift).
			Msg("stock desalineado con el ledger")
	}
	uc.log.Info().
		Int("products_checked", report.ProductsChecked).
		Int("drifts", len(report.Drifts)).
		Msg("conciliación stock/ledger completada")
}
