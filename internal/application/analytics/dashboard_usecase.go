// Package analytics contiene los casos de uso del dashboard: estadísticas, estado del
// inventario y analítica de ventas por período.
package analytics

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/internal/application/snapshot"
	"github.com/jhoicas/boutique-inventory/internal/domain/analytics"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// DashboardUseCase carga la foto del catálogo y del ledger y delega el cálculo en el
// agregador puro (domain/analytics). Nunca modifica estado.
type DashboardUseCase struct {
	loader *snapshot.Loader
	cache  ports.StatsCache
	log    zerolog.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(loader *snapshot.Loader, cache ports.StatsCache, log zerolog.Logger) *DashboardUseCase {
	if cache == nil {
		cache = ports.NopStatsCache{}
	}
	return &DashboardUseCase{loader: loader, cache: cache, log: log, loc: time.Local, now: time.Now}
}

// WithClock reemplaza el reloj y la zona horaria (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time, loc *time.Location) *DashboardUseCase {
	uc.now = now
	uc.loc = loc
	return uc
}

// GetStats calcula las estadísticas del dashboard sobre el ledger filtrado por fechas (inclusivo).
// El resultado se cachea por rango hasta la siguiente mutación de stock.
func (uc *DashboardUseCase) GetStats(ctx context.Context, req dto.DashboardStatsRequest) (*dto.DashboardStatsDTO, error) {
	from, to, err := analytics.ParseDateRange(req.StartDate, req.EndDate, uc.loc)
	if err != nil {
		return nil, err
	}

	key := "stats:" + strings.TrimSpace(req.StartDate) + ":" + strings.TrimSpace(req.EndDate)
	gen, cacheOK := uc.generation(ctx)
	if cacheOK {
		if cached, ok := uc.cached(ctx, gen, key); ok {
			return cached, nil
		}
	}

	snap, err := uc.loader.Load(ctx, repository.SaleFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	now := uc.now().In(uc.loc)

	summary := analytics.Summarize(snap.Products, snap.Entries)
	out := &dto.DashboardStatsDTO{
		Summary: dto.SummaryDTO{
			TotalProducts:  summary.TotalProducts,
			TotalStock:     summary.TotalStock,
			TotalValue:     summary.TotalValue,
			TotalSales:     summary.TotalSales,
			TotalRevenue:   summary.TotalRevenue,
			TotalRestocked: summary.TotalRestocked,
		},
		SalesByCategory:      analytics.SalesByCategory(snap.Entries),
		SalesTrend:           toTrendDTO(analytics.SalesTrend(snap.Entries, now)),
		LowStockItems:        dto.NewProductResponses(analytics.LowStockItems(snap.Products)),
		TopSellingProducts:   toTopSellersDTO(analytics.TopSelling(snap.Entries)),
		StockValueByCategory: analytics.StockValueByCategory(snap.Products),
	}

	if cacheOK {
		uc.store(ctx, gen, key, out)
	}
	return out, nil
}

// GetInventoryStatus conteos de disponibilidad y valor de stock por categoría.
func (uc *DashboardUseCase) GetInventoryStatus(ctx context.Context) (*dto.InventoryStatusDTO, error) {
	products, err := uc.loader.Products(ctx)
	if err != nil {
		return nil, err
	}
	st := analytics.Status(products)
	return &dto.InventoryStatusDTO{
		InStock:              st.InStock,
		LowStock:             st.LowStock,
		OutOfStock:           st.OutOfStock,
		StockValueByCategory: st.StockValueByCategory,
	}, nil
}

// GetSalesAnalytics agrupa las ventas del período (week, month, year; por defecto month).
func (uc *DashboardUseCase) GetSalesAnalytics(ctx context.Context, req dto.SalesAnalyticsRequest) (*dto.SalesAnalyticsDTO, error) {
	period := analytics.ParsePeriod(req.Period)
	now := uc.now().In(uc.loc)
	start := period.Start(now)

	entries, err := uc.loader.Entries(ctx, repository.SaleFilter{From: &start, To: &now})
	if err != nil {
		return nil, err
	}
	report := analytics.SalesAnalytics(entries, period, now)

	out := &dto.SalesAnalyticsDTO{
		Period:    string(report.Period),
		StartDate: report.StartDate.Format(analytics.DateLayout),
		EndDate:   report.EndDate.Format(analytics.DateLayout),
		Data:      make([]dto.SalesBucketDTO, 0, len(report.Buckets)),
	}
	for _, b := range report.Buckets {
		out.Data = append(out.Data, dto.SalesBucketDTO{Label: b.Label, Quantity: b.Quantity, Revenue: b.Revenue})
	}
	return out, nil
}

// generation se toma antes de cargar la foto; si falla, la petición no usa el caché.
func (uc *DashboardUseCase) generation(ctx context.Context) (string, bool) {
	gen, err := uc.cache.Generation(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("caché de estadísticas no disponible")
		return "", false
	}
	return gen, true
}

func (uc *DashboardUseCase) cached(ctx context.Context, gen, key string) (*dto.DashboardStatsDTO, bool) {
	raw, ok, err := uc.cache.Get(ctx, gen, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("caché de estadísticas no disponible")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out dto.DashboardStatsDTO
	if err := json.Unmarshal(raw, &out); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("entrada de caché corrupta")
		return nil, false
	}
	return &out, true
}

func (uc *DashboardUseCase) store(ctx context.Context, gen, key string, stats *dto.DashboardStatsDTO) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, gen, key, raw); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("no se pudo guardar en caché")
	}
}

func toTrendDTO(points []analytics.TrendPoint) []dto.TrendPointDTO {
	out := make([]dto.TrendPointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, dto.TrendPointDTO{
			Date:    p.Date.Format(analytics.DateLayout),
			Sales:   p.Sales,
			Revenue: p.Revenue,
		})
	}
	return out
}

func toTopSellersDTO(sellers []analytics.TopSeller) []dto.TopSellerDTO {
	out := make([]dto.TopSellerDTO, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, dto.TopSellerDTO{Name: s.Name, Quantity: s.Quantity, Revenue: s.Revenue})
	}
	return out
}
