package ports

import (
	"time"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
)

// SalesReportMeta cabecera del reporte del ledger.
type SalesReportMeta struct {
	Title       string
	GeneratedAt time.Time
	Start       string // YYYY-MM-DD o vacío
	End         string // YYYY-MM-DD o vacío
	ProductID   string
}

// SalesReportGenerator define el puerto para renderizar el ledger como PDF.
type SalesReportGenerator interface {
	GenerateSalesReport(meta SalesReportMeta, entries []dto.SaleEntryResponse) ([]byte, error)
}
