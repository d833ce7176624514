package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías del catálogo. Cada una tiene su propio espacio de identidades.
const (
	CategoryShoes   = "shoes"
	CategoryBags    = "bags"
	CategoryDresses = "dresses"
)

// Categories devuelve las categorías en el orden canónico de iteración.
func Categories() []string {
	return []string{CategoryShoes, CategoryBags, CategoryDresses}
}

// IsValidCategory indica si c es una de las tres categorías conocidas.
func IsValidCategory(c string) bool {
	switch c {
	case CategoryShoes, CategoryBags, CategoryDresses:
		return true
	}
	return false
}

// Valores permitidos para los atributos de zapatos.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnisex  = "unisex"
	AgeGroupAdult = "adult"
	AgeGroupChild = "child"
)

// LowStockThreshold stock a partir del cual (inclusive) un producto se considera bajo.
const LowStockThreshold = 5

// Product representa una fila de stock del catálogo (variante etiquetada por Category).
// Shoe solo está presente en zapatos; Size solo aplica a bolsos y vestidos.
type Product struct {
	ID          string
	Category    string
	Name        string // no único: varias filas pueden compartir nombre
	Color       string
	Description string
	Stock       int             // siempre >= 0
	Price       decimal.Decimal // precio unitario
	ImageURL    string
	Shoe        *ShoeDetails
	Size        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShoeDetails atributos propios de los zapatos.
type ShoeDetails struct {
	Gender   string            // male, female, unisex
	AgeGroup string            // adult, child
	Sizes    map[string]string // sistema de talla -> valor (US, UK, EU, CM)
}

// StockValue devuelve price × stock.
func (p *Product) StockValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// Clone devuelve una copia profunda (el mapa de tallas no se comparte).
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.Shoe != nil {
		shoe := *p.Shoe
		if p.Shoe.Sizes != nil {
			shoe.Sizes = make(map[string]string, len(p.Shoe.Sizes))
			for k, v := range p.Shoe.Sizes {
				shoe.Sizes[k] = v
			}
		}
		c.Shoe = &shoe
	}
	return &c
}
