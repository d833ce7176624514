package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/boutique-inventory/internal/domain"
)

// DateLayout formato de fecha aceptado en los filtros (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDateRange interpreta un rango inclusivo de fechas calendario en loc.
// Vacío = sin límite. El fin se normaliza al último instante de su día.
func ParseDateRange(start, end string, loc *time.Location) (from, to *time.Time, err error) {
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha inicial inválida %q (formato YYYY-MM-DD)", domain.ErrValidation, start)
		}
		from = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: fecha final inválida %q (formato YYYY-MM-DD)", domain.ErrValidation, end)
		}
		t = EndOfDay(t)
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrValidation)
	}
	return from, to, nil
}
