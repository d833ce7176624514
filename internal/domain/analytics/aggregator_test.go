package analytics_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-inventory/internal/domain/analytics"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)

func product(category, name string, stock int, price int64) *entity.Product {
	return &entity.Product{
		ID:       fmt.Sprintf("%s-%s-%d", category, name, stock),
		Category: category,
		Name:     name,
		Stock:    stock,
		Price:    decimal.NewFromInt(price),
	}
}

func sale(category, name, saleType string, qty int, price int64, date time.Time) *entity.SaleEntry {
	p := decimal.NewFromInt(price)
	return &entity.SaleEntry{
		ProductID: category + "-" + name,
		Category:  category,
		Name:      name,
		Quantity:  qty,
		Price:     p,
		Total:     p.Mul(decimal.NewFromInt(int64(qty))),
		Type:      saleType,
		Date:      date,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Summary / categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestSummarize(t *testing.T) {
	products := []*entity.Product{
		product(entity.CategoryShoes, "Air", 10, 100),
		product(entity.CategoryBags, "Clutch", 2, 50),
	}
	entries := []*entity.SaleEntry{
		sale(entity.CategoryShoes, "Air", entity.SaleTypeAdd, 10, 100, testNow),
		sale(entity.CategoryShoes, "Air", entity.SaleTypeDeduct, 3, 100, testNow),
		sale(entity.CategoryBags, "Clutch", entity.SaleTypeDeduct, 1, 50, testNow),
	}

	s := analytics.Summarize(products, entries)

	assert.Equal(t, 2, s.TotalProducts)
	assert.Equal(t, 12, s.TotalStock)
	assert.True(t, s.TotalValue.Equal(decimal.NewFromInt(1100)), "valor: %s", s.TotalValue)
	assert.Equal(t, 4, s.TotalSales)
	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(350)), "revenue: %s", s.TotalRevenue)
	assert.Equal(t, 10, s.TotalRestocked)
}

func TestSalesByCategory_SiempreIncluyeLasTres(t *testing.T) {
	out := analytics.SalesByCategory([]*entity.SaleEntry{
		sale(entity.CategoryDresses, "Gala", entity.SaleTypeDeduct, 2, 80, testNow),
		sale(entity.CategoryDresses, "Gala", entity.SaleTypeAdd, 9, 80, testNow),
	})
	assert.Equal(t, map[string]int{"shoes": 0, "bags": 0, "dresses": 2}, out)
}

func TestStockValueByCategory(t *testing.T) {
	out := analytics.StockValueByCategory([]*entity.Product{
		product(entity.CategoryShoes, "Air", 2, 100),
		product(entity.CategoryShoes, "Run", 1, 40),
	})
	assert.True(t, out[entity.CategoryShoes].Equal(decimal.NewFromInt(240)))
	assert.True(t, out[entity.CategoryBags].IsZero())
	assert.True(t, out[entity.CategoryDresses].IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tendencia
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesTrend_SieteDiasTerminandoHoy(t *testing.T) {
	entries := []*entity.SaleEntry{
		sale(entity.CategoryShoes, "Air", entity.SaleTypeDeduct, 2, 100, testNow.Add(-time.Hour)),
		sale(entity.CategoryShoes, "Air", entity.SaleTypeDeduct, 1, 100, testNow.AddDate(0, 0, -6)),
		sale(entity.CategoryShoes, "Air", entity.SaleTypeDeduct, 5, 100, testNow.AddDate(0, 0, -7)), // fuera
		sale(entity.CategoryShoes, "Air", entity.SaleTypeAdd, 9, 100, testNow),                      // no cuenta
	}

	trend := analytics.SalesTrend(entries, testNow)

	require.Len(t, trend, analytics.TrendDays)
	for i := 1; i < len(trend); i++ {
		assert.Equal(t, trend[i-1].Date.AddDate(0, 0, 1), trend[i].Date, "días consecutivos")
	}
	assert.Equal(t, "2026-10-16", trend[6].Date.Format("2006-01-02"))
	assert.Equal(t, "2026-10-10", trend[0].Date.Format("2006-01-02"))
	assert.Equal(t, 2, trend[6].Sales)
	assert.True(t, trend[6].Revenue.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 1, trend[0].Sales)
	for _, p := range trend[1:6] {
		assert.Zero(t, p.Sales)
		assert.True(t, p.Revenue.IsZero())
	}
}

func TestSalesTrend_SinVentasDevuelveCeros(t *testing.T) {
	trend := analytics.SalesTrend(nil, testNow)
	require.Len(t, trend, analytics.TrendDays)
	for _, p := range trend {
		assert.Zero(t, p.Sales)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock bajo y más vendidos
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStockItems_OrdenEstableYLimite(t *testing.T) {
	products := []*entity.Product{
		product(entity.CategoryShoes, "A", 5, 1),
		product(entity.CategoryShoes, "B", 0, 1),
		product(entity.CategoryBags, "C", 9, 1),
		product(entity.CategoryBags, "D", 3, 1),
		product(entity.CategoryDresses, "E", 3, 1),
		product(entity.CategoryDresses, "F", 1, 1),
		product(entity.CategoryDresses, "G", 4, 1),
	}

	low := analytics.LowStockItems(products)

	require.Len(t, low, analytics.LowStockLimit)
	names := make([]string, 0, len(low))
	for _, p := range low {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"B", "F", "D", "E", "G"}, names)
	assert.Equal(t, entity.CategoryBags, low[2].Category)
}

func TestTopSelling_FusionaNombresIguales(t *testing.T) {
	entries := []*entity.SaleEntry{
		sale(entity.CategoryBags, "Clutch", entity.SaleTypeDeduct, 3, 10, testNow.Add(-2*time.Hour)),
		sale(entity.CategoryBags, "Tote", entity.SaleTypeDeduct, 5, 10, testNow.Add(-90*time.Minute)),
		sale(entity.CategoryDresses, "Clutch", entity.SaleTypeDeduct, 4, 20, testNow.Add(-time.Hour)),
		sale(entity.CategoryBags, "Clutch", entity.SaleTypeAdd, 50, 10, testNow),
	}

	top := analytics.TopSelling(entries)

	require.Len(t, top, 2)
	assert.Equal(t, "Clutch", top[0].Name)
	assert.Equal(t, 7, top[0].Quantity)
	assert.True(t, top[0].Revenue.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, "Tote", top[1].Name)
}

func TestTopSelling_EmpatesRespetanOrdenDeAparicionYLimite(t *testing.T) {
	var entries []*entity.SaleEntry
	for i, name := range []string{"u", "v", "w", "x", "y", "z"} {
		entries = append(entries, sale(entity.CategoryShoes, name, entity.SaleTypeDeduct, 2, 1, testNow.Add(time.Duration(i)*time.Minute)))
	}

	top := analytics.TopSelling(entries)

	require.Len(t, top, analytics.TopSellingMax)
	assert.Equal(t, "u", top[0].Name)
	assert.Equal(t, "y", top[4].Name)
}

func TestTopSelling_SinVentas(t *testing.T) {
	assert.Empty(t, analytics.TopSelling(nil))
	assert.NotNil(t, analytics.TopSelling(nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado del inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestStatus(t *testing.T) {
	st := analytics.Status([]*entity.Product{
		product(entity.CategoryShoes, "A", 0, 10),
		product(entity.CategoryShoes, "B", 5, 10),
		product(entity.CategoryBags, "C", 6, 10),
		product(entity.CategoryDresses, "D", 1, 10),
	})
	assert.Equal(t, 3, st.InStock)
	assert.Equal(t, 2, st.LowStock)
	assert.Equal(t, 1, st.OutOfStock)
	assert.True(t, st.StockValueByCategory[entity.CategoryShoes].Equal(decimal.NewFromInt(50)))
}

func TestEndOfDay(t *testing.T) {
	end := analytics.EndOfDay(testNow)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, 16, end.Day())
	assert.Equal(t, 999999999, end.Nanosecond())
}
