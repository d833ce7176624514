package analytics_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-inventory/internal/application/analytics"
	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/inventory"
	"github.com/jhoicas/boutique-inventory/internal/application/snapshot"
	"github.com/jhoicas/boutique-inventory/internal/domain"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var now = time.Date(2026, 10, 16, 15, 30, 0, 0, time.UTC)

// mapCache caché por generaciones: Invalidate abre una generación nueva.
type mapCache struct {
	data    map[string][]byte
	gen     int
	getErr  error
	gets    int
	setKeys []string
}

func (c *mapCache) Generation(context.Context) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return strconv.Itoa(c.gen), nil
}

func (c *mapCache) Get(_ context.Context, gen, key string) ([]byte, bool, error) {
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.data[gen+":"+key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, gen, key string, value []byte) error {
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[gen+":"+key] = value
	c.setKeys = append(c.setKeys, key)
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.gen++
	return nil
}

type fixture struct {
	store    *memory.Store
	products *memory.ProductRepo
	sales    *memory.SaleRepo
}

func newFixture() fixture {
	store := memory.NewStore()
	return fixture{store: store, products: memory.NewProductRepo(store), sales: memory.NewSaleRepo(store)}
}

// deductAfterLedgerRead confirma un descuento justo después de que el cargador leyó el ledger.
type deductAfterLedgerRead struct {
	repository.SaleRepository
	once   sync.Once
	deduct func() error
	err    error
}

func (d *deductAfterLedgerRead) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.SaleEntry, error) {
	entries, err := d.SaleRepository.List(ctx, filter)
	d.once.Do(func() { d.err = d.deduct() })
	return entries, err
}

func (f fixture) product(t *testing.T, category, id, name string, stock int, price int64) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: id, Category: category, Name: name, Stock: stock, Price: decimal.NewFromInt(price)}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func (f fixture) sale(t *testing.T, p *entity.Product, saleType string, qty int, at time.Time) {
	t.Helper()
	require.NoError(t, f.sales.Append(context.Background(), entity.NewSaleEntry(at.String(), p, saleType, qty, at)))
}

func (f fixture) useCase(cache *mapCache) *analytics.DashboardUseCase {
	var uc *analytics.DashboardUseCase
	if cache == nil {
		uc = analytics.NewDashboardUseCase(snapshot.NewLoader(f.products, f.sales), nil, zerolog.Nop())
	} else {
		uc = analytics.NewDashboardUseCase(snapshot.NewLoader(f.products, f.sales), cache, zerolog.Nop())
	}
	return uc.WithClock(func() time.Time { return now }, time.UTC)
}

// ──────────────────────────────────────────────────────────────────────────────
// GetStats
// ──────────────────────────────────────────────────────────────────────────────

func TestGetStats_ClutchFusionadoYTotales(t *testing.T) {
	f := newFixture()
	a := f.product(t, entity.CategoryBags, "b1", "Clutch", 2, 10)
	b := f.product(t, entity.CategoryDresses, "d1", "Clutch", 8, 20)
	f.product(t, entity.CategoryShoes, "s1", "Air", 0, 100)
	f.sale(t, a, entity.SaleTypeDeduct, 3, now.Add(-3*time.Hour))
	f.sale(t, b, entity.SaleTypeDeduct, 4, now.Add(-2*time.Hour))
	f.sale(t, b, entity.SaleTypeAdd, 6, now.Add(-time.Hour))

	stats, err := f.useCase(nil).GetStats(context.Background(), dto.DashboardStatsRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Summary.TotalProducts)
	assert.Equal(t, 10, stats.Summary.TotalStock)
	assert.True(t, stats.Summary.TotalValue.Equal(decimal.NewFromInt(180)))
	assert.Equal(t, 7, stats.Summary.TotalSales)
	assert.True(t, stats.Summary.TotalRevenue.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, 6, stats.Summary.TotalRestocked)

	require.Len(t, stats.TopSellingProducts, 1)
	assert.Equal(t, "Clutch", stats.TopSellingProducts[0].Name)
	assert.Equal(t, 7, stats.TopSellingProducts[0].Quantity)

	assert.Equal(t, map[string]int{"shoes": 0, "bags": 3, "dresses": 4}, stats.SalesByCategory)
	require.Len(t, stats.SalesTrend, 7)
	assert.Equal(t, "2026-10-16", stats.SalesTrend[6].Date)
	assert.Equal(t, 7, stats.SalesTrend[6].Sales)

	require.Len(t, stats.LowStockItems, 2)
	assert.Equal(t, entity.CategoryShoes, stats.LowStockItems[0].Category)
	assert.Equal(t, entity.CategoryBags, stats.LowStockItems[1].Category)
}

func TestGetStats_FiltraPorRango(t *testing.T) {
	f := newFixture()
	p := f.product(t, entity.CategoryShoes, "s1", "Air", 5, 10)
	f.sale(t, p, entity.SaleTypeDeduct, 1, time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))
	f.sale(t, p, entity.SaleTypeDeduct, 2, time.Date(2026, 10, 10, 23, 59, 0, 0, time.UTC))
	f.sale(t, p, entity.SaleTypeDeduct, 4, time.Date(2026, 10, 11, 0, 0, 1, 0, time.UTC))

	stats, err := f.useCase(nil).GetStats(context.Background(), dto.DashboardStatsRequest{StartDate: "2026-10-02", EndDate: "2026-10-10"})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Summary.TotalSales)

	_, err = f.useCase(nil).GetStats(context.Background(), dto.DashboardStatsRequest{StartDate: "10/02/2026"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetStats_UsaCacheYToleraErrores(t *testing.T) {
	f := newFixture()
	f.product(t, entity.CategoryShoes, "s1", "Air", 5, 10)
	cache := &mapCache{}
	uc := f.useCase(cache)

	first, err := uc.GetStats(context.Background(), dto.DashboardStatsRequest{})
	require.NoError(t, err)
	require.Len(t, cache.setKeys, 1)

	// Un producto nuevo sin invalidar el caché no se ve todavía.
	f.product(t, entity.CategoryBags, "b1", "Tote", 1, 1)
	second, err := uc.GetStats(context.Background(), dto.DashboardStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, first.Summary.TotalProducts, second.Summary.TotalProducts)
	assert.True(t, first.Summary.TotalValue.Equal(second.Summary.TotalValue))

	cache.getErr = errors.New("redis caído")
	third, err := uc.GetStats(context.Background(), dto.DashboardStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, third.Summary.TotalProducts)
}

func TestGetStats_MutacionDuranteElCalculoNoQuedaEnCache(t *testing.T) {
	f := newFixture()
	f.product(t, entity.CategoryShoes, "s1", "Air", 10, 10)
	ctx := context.Background()
	cache := &mapCache{}

	stock := inventory.NewStockUseCase(memory.NewTxRunner(f.store), f.products, nil, cache, zerolog.Nop())
	sales := &deductAfterLedgerRead{SaleRepository: f.sales, deduct: func() error {
		_, err := stock.DeductStock(ctx, entity.CategoryShoes, "s1", 4)
		return err
	}}
	uc := analytics.NewDashboardUseCase(snapshot.NewLoader(f.products, sales), cache, zerolog.Nop()).
		WithClock(func() time.Time { return now }, time.UTC)

	_, err := uc.GetStats(ctx, dto.DashboardStatsRequest{})
	require.NoError(t, err)
	require.NoError(t, sales.err)
	assert.Contains(t, cache.data, "0:stats::", "el resultado queda bajo la generación leída antes del cálculo")

	second, err := uc.GetStats(ctx, dto.DashboardStatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 4, second.Summary.TotalSales)
	assert.Equal(t, 6, second.Summary.TotalStock)
	assert.Equal(t, []string{"stats::", "stats::"}, cache.setKeys)
}

// ──────────────────────────────────────────────────────────────────────────────
// InventoryStatus / SalesAnalytics
// ──────────────────────────────────────────────────────────────────────────────

func TestGetInventoryStatus(t *testing.T) {
	f := newFixture()
	f.product(t, entity.CategoryShoes, "s1", "Air", 0, 10)
	f.product(t, entity.CategoryBags, "b1", "Tote", 3, 10)
	f.product(t, entity.CategoryDresses, "d1", "Gala", 9, 10)

	st, err := f.useCase(nil).GetInventoryStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, st.InStock)
	assert.Equal(t, 1, st.LowStock)
	assert.Equal(t, 1, st.OutOfStock)
	assert.True(t, st.StockValueByCategory[entity.CategoryDresses].Equal(decimal.NewFromInt(90)))
}

func TestGetSalesAnalytics_PorDefectoMes(t *testing.T) {
	f := newFixture()
	p := f.product(t, entity.CategoryShoes, "s1", "Air", 50, 10)
	f.sale(t, p, entity.SaleTypeDeduct, 1, time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC))
	f.sale(t, p, entity.SaleTypeDeduct, 2, time.Date(2026, 10, 2, 12, 0, 0, 0, time.UTC))
	f.sale(t, p, entity.SaleTypeDeduct, 9, time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))

	out, err := f.useCase(nil).GetSalesAnalytics(context.Background(), dto.SalesAnalyticsRequest{Period: "decade"})
	require.NoError(t, err)

	assert.Equal(t, "month", out.Period)
	assert.Equal(t, "2026-09-16", out.StartDate)
	assert.Equal(t, "2026-10-16", out.EndDate)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "Week 3", out.Data[0].Label)
	assert.Equal(t, "Week 1", out.Data[1].Label)
	assert.True(t, out.Data[1].Revenue.Equal(decimal.NewFromInt(20)))
}

func TestGetSalesAnalytics_SinVentas(t *testing.T) {
	out, err := newFixture().useCase(nil).GetSalesAnalytics(context.Background(), dto.SalesAnalyticsRequest{Period: "year"})
	require.NoError(t, err)
	assert.Equal(t, "year", out.Period)
	assert.NotNil(t, out.Data)
	assert.Empty(t, out.Data)
}
