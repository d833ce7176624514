// Package csvimport lee altas masivas de catálogo desde CSV (UTF-8 o ISO-8859-1).
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/domain"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// Row una fila válida del archivo.
type Row struct {
	Line     int
	Category string
	Product  dto.CreateProductRequest
}

// Columnas reconocidas (cabecera, sin distinguir mayúsculas). category y name son obligatorias.
var columns = []string{"category", "name", "color", "description", "stock", "price", "image_url", "gender", "agegroup", "size", "sizes"}

// Read interpreta el CSV. Con latin1 el contenido se decodifica desde ISO-8859-1
// (exportaciones de Excel en Windows). Stock y price se pasan tal cual: la coerción es la del alta.
func Read(r io.Reader, latin1 bool) ([]Row, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cabecera: %v", domain.ErrValidation, err)
	}
	index, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		line, _ := cr.FieldPos(0)
		get := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		if isBlank(record) {
			continue
		}

		category := strings.ToLower(get("category"))
		if !entity.IsValidCategory(category) {
			return nil, fmt.Errorf("%w: línea %d: categoría desconocida %q", domain.ErrValidation, line, category)
		}
		sizes, err := parseSizes(get("sizes"))
		if err != nil {
			return nil, fmt.Errorf("%w: línea %d: %v", domain.ErrValidation, line, err)
		}
		row := Row{
			Line:     line,
			Category: category,
			Product: dto.CreateProductRequest{
				Name:        get("name"),
				Color:       get("color"),
				Description: get("description"),
				ImageURL:    get("image_url"),
				Gender:      get("gender"),
				AgeGroup:    get("agegroup"),
				Size:        get("size"),
				Sizes:       sizes,
			},
		}
		if v := get("stock"); v != "" {
			row.Product.Stock = v
		}
		if v := get("price"); v != "" {
			row.Product.Price = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, c := range columns {
			if key == c {
				index[c] = i
			}
		}
	}
	for _, required := range []string{"category", "name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %q", domain.ErrValidation, required)
		}
	}
	return index, nil
}

// parseSizes formato "US=9;EU=42".
func parseSizes(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	out := make(map[string]any)
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("talla inválida %q (se espera SISTEMA=VALOR)", pair)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
