// Package pdf genera el reporte imprimible del ledger de ventas con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtros        │  Fecha de generación     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Cat. | Tipo | Cant | P.Unit | Total │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Unidades vendidas / Ingresos / Unidades repuestas │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDeduct  = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ ports.SalesReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa ports.SalesReportGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	author string
}

// NewMarotoReportGenerator construye el generador; author se graba en los metadatos del PDF.
func NewMarotoReportGenerator(author string) *MarotoReportGenerator {
	return &MarotoReportGenerator{author: author}
}

// GenerateSalesReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateSalesReport(meta ports.SalesReportMeta, entries []dto.SaleEntryResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(meta.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(meta))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(entries) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos para los filtros seleccionados.", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		)))
	}
	m.AddRows(tableDetailRows(entries)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(summarize(entries)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y filtros (izq), fecha de generación (der).
func headerRow(meta ports.SalesReportMeta) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(meta.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(filtersLabel(meta), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(meta.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla del ledger.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Categoría", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Cant.", 1, align.Center),
		h("P. Unit.", 1, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por entrada del ledger.
func tableDetailRows(entries []dto.SaleEntryResponse) []core.Row {
	result := make([]core.Row, 0, len(entries))
	for _, e := range entries {
		typeStyle := props.Text{Size: 8, Align: align.Center, Top: 1}
		if e.Type == entity.SaleTypeDeduct {
			typeStyle.Color = colorDeduct
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(e.Date.Format("02/01/2006 15:04"), props.Text{Size: 7.5, Top: 1, Left: 1})),
			col.New(3).Add(text.New(e.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(e.Category, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(e.Type, typeStyle)),
			col.New(1).Add(text.New(fmt.Sprintf("%d", e.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New("$"+formatMoney(e.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(e.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// reportTotals acumulados del reporte.
type reportTotals struct {
	soldUnits      int
	revenue        decimal.Decimal
	restockedUnits int
	restockedValue decimal.Decimal
}

func summarize(entries []dto.SaleEntryResponse) reportTotals {
	var t reportTotals
	for _, e := range entries {
		switch e.Type {
		case entity.SaleTypeDeduct:
			t.soldUnits += e.Quantity
			t.revenue = t.revenue.Add(e.Total)
		case entity.SaleTypeAdd:
			t.restockedUnits += e.Quantity
			t.restockedValue = t.restockedValue.Add(e.Total)
		}
	}
	return t
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(t reportTotals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Unidades vendidas:"),
			label("Ingresos:"),
			label("Unidades repuestas:"),
			label("Valor repuesto:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", t.soldUnits)),
			value("$"+formatMoney(t.revenue)),
			value(fmt.Sprintf("%d", t.restockedUnits)),
			value("$"+formatMoney(t.restockedValue)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func filtersLabel(meta ports.SalesReportMeta) string {
	parts := []string{
		"Desde: " + nonEmpty(meta.Start, "inicio"),
		"Hasta: " + nonEmpty(meta.End, "hoy"),
	}
	if meta.ProductID != "" {
		parts = append(parts, "Producto: "+meta.ProductID)
	}
	return strings.Join(parts, "   |   ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea con dos decimales y puntos de miles.
// Ej: 25000 → "25.000,00", 1234.5 → "1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
