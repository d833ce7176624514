package inventory

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/jhoicas/boutique-inventory/internal/domain"
)

// ParseQuantity interpreta la cantidad de un movimiento de stock.
// Acepta números JSON o texto numérico; debe ser un entero estrictamente positivo.
func ParseQuantity(v any) (int, error) {
	f, ok := toFloat(v)
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidQuantity, v)
	}
	return int(f), nil
}

// lenientStock coerción permisiva del alta: ausente, no numérico o negativo -> 0.
func lenientStock(v any) int {
	f, ok := toFloat(v)
	if !ok || f <= 0 || f > math.MaxInt32 {
		return 0
	}
	return int(math.Floor(f))
}

// lenientPrice coerción permisiva del alta: ausente, no numérico o negativo -> 0.
func lenientPrice(v any) decimal.Decimal {
	d, ok := toDecimal(v)
	if !ok || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// strictStock valida el stock de una actualización administrativa.
func strictStock(v any) (int, error) {
	f, ok := toFloat(v)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, fmt.Errorf("%w: stock debe ser un entero >= 0", domain.ErrValidation)
	}
	return int(f), nil
}

// strictPrice valida el precio de una actualización administrativa.
func strictPrice(v any) (decimal.Decimal, error) {
	d, ok := toDecimal(v)
	if !ok || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: price debe ser un número >= 0", domain.ErrValidation)
	}
	return d, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		v = strings.TrimSpace(x)
		if v == "" {
			return 0, false
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil, bool:
		return decimal.Zero, false
	case decimal.Decimal:
		return x, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(x), true
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		return d, err == nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// toSizes normaliza el mapa de tallas (sistema -> valor) a texto.
func toSizes(in map[string]any) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		k = strings.TrimSpace(k)
		if k == "" || v == nil {
			continue
		}
		out[k] = cast.ToString(v)
	}
	return out
}
