// Package sales expone la consulta y exportación del ledger de ventas.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/internal/domain/analytics"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// LedgerUseCase lectura del ledger filtrada por rango de fechas y producto.
type LedgerUseCase struct {
	saleRepo repository.SaleRepository
	reports  ports.SalesReportGenerator
	loc      *time.Location
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. reports puede ser nil si no se exporta PDF.
func NewLedgerUseCase(saleRepo repository.SaleRepository, reports ports.SalesReportGenerator) *LedgerUseCase {
	return &LedgerUseCase{saleRepo: saleRepo, reports: reports, loc: time.Local, now: time.Now}
}

// WithLocation fija la zona horaria en la que se interpretan las fechas del filtro.
func (uc *LedgerUseCase) WithLocation(loc *time.Location) *LedgerUseCase {
	uc.loc = loc
	return uc
}

// ListLogs devuelve las entradas que cumplen el filtro, la más reciente primero.
func (uc *LedgerUseCase) ListLogs(ctx context.Context, in dto.SalesLogRequest) ([]dto.SaleEntryResponse, error) {
	filter, err := uc.filter(in)
	if err != nil {
		return nil, err
	}
	entries, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewSaleEntryResponses(entries), nil
}

// ExportReport renderiza la misma selección de ListLogs como PDF. Devuelve el contenido y un nombre de archivo.
func (uc *LedgerUseCase) ExportReport(ctx context.Context, in dto.SalesLogRequest) ([]byte, string, error) {
	if uc.reports == nil {
		return nil, "", fmt.Errorf("sales: no hay generador de reportes configurado")
	}
	entries, err := uc.ListLogs(ctx, in)
	if err != nil {
		return nil, "", err
	}
	now := uc.now()
	pdf, err := uc.reports.GenerateSalesReport(ports.SalesReportMeta{
		Title:       "Ledger de ventas",
		GeneratedAt: now,
		Start:       strings.TrimSpace(in.Start),
		End:         strings.TrimSpace(in.End),
		ProductID:   strings.TrimSpace(in.ProductID),
	}, entries)
	if err != nil {
		return nil, "", fmt.Errorf("sales: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("ledger-%s.pdf", now.Format("20060102-150405")), nil
}

func (uc *LedgerUseCase) filter(in dto.SalesLogRequest) (repository.SaleFilter, error) {
	from, to, err := analytics.ParseDateRange(in.Start, in.End, uc.loc)
	if err != nil {
		return repository.SaleFilter{}, err
	}
	return repository.SaleFilter{From: from, To: to, ProductID: strings.TrimSpace(in.ProductID)}, nil
}
