package dto

import "github.com/shopspring/decimal"

// SalesAnalyticsRequest parámetros para GET /api/dashboard/sales-analytics.
type SalesAnalyticsRequest struct {
	Period string `query:"period"` // week | month | year (por defecto month)
}

// SalesBucketDTO ventas acumuladas de un bucket del período.
type SalesBucketDTO struct {
	Label    string          `json:"label"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesAnalyticsDTO respuesta de GET /api/dashboard/sales-analytics.
type SalesAnalyticsDTO struct {
	Period    string           `json:"period"`
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Data      []SalesBucketDTO `json:"data"`
}
