// Package analytics contiene el motor de agregación del dashboard: funciones puras
// sobre una foto de los productos y del ledger de ventas. Nada aquí modifica estado.
package analytics

import (
	"sort"
	"time"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	TrendDays     = 7 // puntos de la tendencia de ventas
	LowStockLimit = 5 // máximo de alertas de stock bajo
	TopSellingMax = 5 // máximo de productos más vendidos
)

// Summary totales globales del dashboard.
type Summary struct {
	TotalProducts  int
	TotalStock     int
	TotalValue     decimal.Decimal // Σ price × stock
	TotalSales     int             // Σ quantity de las entradas deduct
	TotalRevenue   decimal.Decimal // Σ total de las entradas deduct
	TotalRestocked int             // Σ quantity de las entradas add
}

// TrendPoint ventas de un día calendario.
type TrendPoint struct {
	Date    time.Time // medianoche local del día
	Sales   int
	Revenue decimal.Decimal
}

// TopSeller ventas acumuladas por nombre de producto.
type TopSeller struct {
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// InventoryStatus conteos de disponibilidad del catálogo.
type InventoryStatus struct {
	InStock              int // stock > 0
	LowStock             int // 0 < stock <= LowStockThreshold
	OutOfStock           int // stock == 0
	StockValueByCategory map[string]decimal.Decimal
}

// Summarize calcula los totales globales.
func Summarize(products []*entity.Product, entries []*entity.SaleEntry) Summary {
	s := Summary{TotalProducts: len(products)}
	for _, p := range products {
		s.TotalStock += p.Stock
		s.TotalValue = s.TotalValue.Add(p.StockValue())
	}
	for _, e := range entries {
		switch e.Type {
		case entity.SaleTypeDeduct:
			s.TotalSales += e.Quantity
			s.TotalRevenue = s.TotalRevenue.Add(e.Total)
		case entity.SaleTypeAdd:
			s.TotalRestocked += e.Quantity
		}
	}
	return s
}

// SalesByCategory unidades vendidas por categoría. Las tres categorías siempre aparecen.
func SalesByCategory(entries []*entity.SaleEntry) map[string]int {
	out := make(map[string]int, 3)
	for _, c := range entity.Categories() {
		out[c] = 0
	}
	for _, e := range entries {
		if e.Type == entity.SaleTypeDeduct {
			out[e.Category] += e.Quantity
		}
	}
	return out
}

// SalesTrend devuelve exactamente TrendDays puntos, del más antiguo a hoy.
func SalesTrend(entries []*entity.SaleEntry, now time.Time) []TrendPoint {
	today := startOfDay(now)
	points := make([]TrendPoint, TrendDays)
	index := make(map[string]int, TrendDays)
	for i := 0; i < TrendDays; i++ {
		day := today.AddDate(0, 0, i-(TrendDays-1))
		points[i] = TrendPoint{Date: day, Revenue: decimal.Zero}
		index[dayKey(day)] = i
	}
	for _, e := range entries {
		if e.Type != entity.SaleTypeDeduct {
			continue
		}
		i, ok := index[dayKey(e.Date.In(now.Location()))]
		if !ok {
			continue
		}
		points[i].Sales += e.Quantity
		points[i].Revenue = points[i].Revenue.Add(e.Total)
	}
	return points
}

// LowStockItems hasta LowStockLimit productos con stock <= LowStockThreshold,
// ascendente por stock y estable respecto al orden de entrada.
func LowStockItems(products []*entity.Product) []*entity.Product {
	low := make([]*entity.Product, 0, LowStockLimit)
	for _, p := range products {
		if p.Stock <= entity.LowStockThreshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Stock < low[j].Stock })
	if len(low) > LowStockLimit {
		low = low[:LowStockLimit]
	}
	return low
}

// TopSelling agrupa las ventas por nombre (filas homónimas se fusionan) y devuelve
// hasta TopSellingMax, descendente por cantidad. Empates: orden de aparición en el ledger.
func TopSelling(entries []*entity.SaleEntry) []TopSeller {
	byName := make(map[string]int)
	var sellers []TopSeller
	for _, e := range Chronological(entries) {
		if e.Type != entity.SaleTypeDeduct {
			continue
		}
		i, ok := byName[e.Name]
		if !ok {
			i = len(sellers)
			byName[e.Name] = i
			sellers = append(sellers, TopSeller{Name: e.Name, Revenue: decimal.Zero})
		}
		sellers[i].Quantity += e.Quantity
		sellers[i].Revenue = sellers[i].Revenue.Add(e.Total)
	}
	sort.SliceStable(sellers, func(i, j int) bool { return sellers[i].Quantity > sellers[j].Quantity })
	if len(sellers) > TopSellingMax {
		sellers = sellers[:TopSellingMax]
	}
	if sellers == nil {
		sellers = []TopSeller{}
	}
	return sellers
}

// StockValueByCategory Σ price × stock por categoría.
func StockValueByCategory(products []*entity.Product) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, 3)
	for _, c := range entity.Categories() {
		out[c] = decimal.Zero
	}
	for _, p := range products {
		out[p.Category] = out[p.Category].Add(p.StockValue())
	}
	return out
}

// Status calcula el estado del inventario.
func Status(products []*entity.Product) InventoryStatus {
	st := InventoryStatus{StockValueByCategory: StockValueByCategory(products)}
	for _, p := range products {
		switch {
		case p.Stock == 0:
			st.OutOfStock++
		case p.Stock <= entity.LowStockThreshold:
			st.InStock++
			st.LowStock++
		default:
			st.InStock++
		}
	}
	return st
}

// Chronological devuelve una copia ordenada por fecha ascendente (estable).
func Chronological(entries []*entity.SaleEntry) []*entity.SaleEntry {
	out := make([]*entity.SaleEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay último instante del día calendario de t.
func EndOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
