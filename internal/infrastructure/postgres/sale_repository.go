package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ledger de ventas sobre PostgreSQL: solo INSERT y SELECT.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Append inserta una entrada inmutable.
func (r *SaleRepo) Append(ctx context.Context, e *entity.SaleEntry) error {
	query := `
		INSERT INTO sales (id, product_id, category, name, quantity, price, total, type, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.Category, e.Name, e.Quantity, e.Price, e.Total, e.Type, e.Date,
	)
	if err != nil {
		return persistenceErr("insert sale", err)
	}
	return nil
}

// List devuelve las entradas filtradas, la más reciente primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.SaleEntry, error) {
	where, args := saleFilterClause(f)
	query := `
		SELECT id, product_id, category, name, quantity, price, total, type, date
		FROM sales` + where + `
		ORDER BY date DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr("list sales", err)
	}
	defer rows.Close()

	out := []*entity.SaleEntry{}
	for rows.Next() {
		var e entity.SaleEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Category, &e.Name, &e.Quantity, &e.Price, &e.Total, &e.Type, &e.Date); err != nil {
			return nil, persistenceErr("scan sale", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("list sales", err)
	}
	return out, nil
}

// saleFilterClause arma el WHERE parametrizado del filtro (vacío si no hay criterios).
func saleFilterClause(f repository.SaleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	if f.ProductID != "" {
		args = append(args, f.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}
