package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Period ventana de la analítica de ventas.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod normaliza el período; vacío o desconocido se interpreta como mes.
func ParsePeriod(s string) Period {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodWeek:
		return PeriodWeek
	case PeriodYear:
		return PeriodYear
	default:
		return PeriodMonth
	}
}

// Start devuelve el inicio de la ventana: now − 7 días / 1 mes / 1 año.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// Label etiqueta del bucket al que pertenece t:
// día (YYYY-MM-DD) para week, "Week N" para month y nombre del mes para year.
func (p Period) Label(t time.Time) string {
	switch p {
	case PeriodWeek:
		return dayKey(t)
	case PeriodYear:
		return t.Month().String()
	default:
		return fmt.Sprintf("Week %d", WeekOfMonth(t))
	}
}

// WeekOfMonth índice (desde 1) de la semana, de lunes a domingo, dentro del mes de t. La semana 1 contiene el día 1.
func WeekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := (int(first.Weekday()) + 6) % 7 // lunes = 0
	return (t.Day()-1+offset)/7 + 1
}

// Bucket ventas acumuladas bajo una etiqueta.
type Bucket struct {
	Label    string
	Quantity int
	Revenue  decimal.Decimal
}

// PeriodReport resultado de SalesAnalytics.
type PeriodReport struct {
	Period    Period
	StartDate time.Time
	EndDate   time.Time
	Buckets   []Bucket
}

// SalesAnalytics agrupa las ventas (deduct) de [period.Start(now), now] en buckets.
// Los buckets salen en orden cronológico de primera aparición; etiquetas repetidas se fusionan.
func SalesAnalytics(entries []*entity.SaleEntry, period Period, now time.Time) PeriodReport {
	start := period.Start(now)
	report := PeriodReport{Period: period, StartDate: start, EndDate: now, Buckets: []Bucket{}}
	index := make(map[string]int)
	for _, e := range Chronological(entries) {
		if e.Type != entity.SaleTypeDeduct || e.Date.Before(start) || e.Date.After(now) {
			continue
		}
		label := period.Label(e.Date.In(now.Location()))
		i, ok := index[label]
		if !ok {
			i = len(report.Buckets)
			index[label] = i
			report.Buckets = append(report.Buckets, Bucket{Label: label, Revenue: decimal.Zero})
		}
		report.Buckets[i].Quantity += e.Quantity
		report.Buckets[i].Revenue = report.Buckets[i].Revenue.Add(e.Total)
	}
	return report
}
