package dto

import "github.com/shopspring/decimal"

// DashboardStatsRequest parámetros para GET /api/dashboard/stats.
type DashboardStatsRequest struct {
	StartDate string `query:"startDate"` // YYYY-MM-DD; vacío = sin límite inferior
	EndDate   string `query:"endDate"`   // YYYY-MM-DD; vacío = sin límite superior
}

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	Summary              SummaryDTO                 `json:"summary"`
	SalesByCategory      map[string]int             `json:"salesByCategory"`
	SalesTrend           []TrendPointDTO            `json:"salesTrend"`
	LowStockItems        []ProductResponse          `json:"lowStockItems"`
	TopSellingProducts   []TopSellerDTO             `json:"topSellingProducts"`
	StockValueByCategory map[string]decimal.Decimal `json:"stockValueByCategory"`
}

// SummaryDTO totales globales.
type SummaryDTO struct {
	TotalProducts  int             `json:"totalProducts"`
	TotalStock     int             `json:"totalStock"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	TotalSales     int             `json:"totalSales"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalRestocked int             `json:"totalRestocked"`
}

// TrendPointDTO ventas de un día (YYYY-MM-DD).
type TrendPointDTO struct {
	Date    string          `json:"date"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

// TopSellerDTO producto más vendido (agrupado por nombre).
type TopSellerDTO struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// InventoryStatusDTO respuesta de GET /api/dashboard/inventory-status.
type InventoryStatusDTO struct {
	InStock              int                        `json:"inStock"`
	LowStock             int                        `json:"lowStock"`
	OutOfStock           int                        `json:"outOfStock"`
	StockValueByCategory map[string]decimal.Decimal `json:"stockValueByCategory"`
}
