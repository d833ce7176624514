package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/internal/application/sales"
	"github.com/jhoicas/boutique-inventory/internal/domain"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/memory"
)

type stubReports struct {
	meta    ports.SalesReportMeta
	entries []dto.SaleEntryResponse
}

func (s *stubReports) GenerateSalesReport(meta ports.SalesReportMeta, entries []dto.SaleEntryResponse) ([]byte, error) {
	s.meta, s.entries = meta, entries
	return []byte("%PDF-stub"), nil
}

func seedLedger(t *testing.T) *memory.SaleRepo {
	t.Helper()
	repo := memory.NewSaleRepo(memory.NewStore())
	p := &entity.Product{ID: "p1", Category: entity.CategoryShoes, Name: "Air", Price: decimal.NewFromInt(10)}
	q := &entity.Product{ID: "p2", Category: entity.CategoryBags, Name: "Tote", Price: decimal.NewFromInt(5)}
	dates := []time.Time{
		time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 5, 23, 30, 0, 0, time.UTC),
		time.Date(2026, 10, 6, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Append(context.Background(), entity.NewSaleEntry("e1", p, entity.SaleTypeAdd, 5, dates[0])))
	require.NoError(t, repo.Append(context.Background(), entity.NewSaleEntry("e2", q, entity.SaleTypeDeduct, 1, dates[1])))
	require.NoError(t, repo.Append(context.Background(), entity.NewSaleEntry("e3", p, entity.SaleTypeDeduct, 2, dates[2])))
	return repo
}

func TestListLogs_MasRecientePrimero(t *testing.T) {
	uc := sales.NewLedgerUseCase(seedLedger(t), nil).WithLocation(time.UTC)

	out, err := uc.ListLogs(context.Background(), dto.SalesLogRequest{})
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, "e3", out[0].ID)
	assert.Equal(t, "e1", out[2].ID)
}

func TestListLogs_FinDeRangoInclusivo(t *testing.T) {
	uc := sales.NewLedgerUseCase(seedLedger(t), nil).WithLocation(time.UTC)

	out, err := uc.ListLogs(context.Background(), dto.SalesLogRequest{Start: "2026-10-02", End: "2026-10-05"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "e2", out[0].ID)

	out, err = uc.ListLogs(context.Background(), dto.SalesLogRequest{ProductID: "p1"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestListLogs_FechaInvalida(t *testing.T) {
	uc := sales.NewLedgerUseCase(seedLedger(t), nil)

	_, err := uc.ListLogs(context.Background(), dto.SalesLogRequest{Start: "ayer"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExportReport_UsaLaMismaSeleccion(t *testing.T) {
	reports := &stubReports{}
	uc := sales.NewLedgerUseCase(seedLedger(t), reports).WithLocation(time.UTC)

	pdf, name, err := uc.ExportReport(context.Background(), dto.SalesLogRequest{ProductID: "p1", End: "2026-10-31"})
	require.NoError(t, err)

	assert.Equal(t, "%PDF-stub", string(pdf))
	assert.Contains(t, name, ".pdf")
	assert.Len(t, reports.entries, 2)
	assert.Equal(t, "p1", reports.meta.ProductID)
	assert.Equal(t, "2026-10-31", reports.meta.End)
}
