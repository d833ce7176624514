package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto en cualquier categoría.
// Stock y Price aceptan número o texto: lo no interpretable se toma como 0.
type CreateProductRequest struct {
	Name        string         `json:"name"`
	Color       string         `json:"color"`
	Description string         `json:"description"`
	Stock       any            `json:"stock" swaggertype:"integer"`
	Price       any            `json:"price" swaggertype:"number"`
	ImageURL    string         `json:"image_url"`
	Gender      string         `json:"gender"`   // solo zapatos
	AgeGroup    string         `json:"ageGroup"` // solo zapatos
	Sizes       map[string]any `json:"sizes"`    // solo zapatos
	Size        string         `json:"size"`     // bolsos y vestidos
}

// UpdateProductRequest actualización parcial (override administrativo, sin ledger).
// Campos nil no se modifican.
type UpdateProductRequest struct {
	Name        *string        `json:"name"`
	Color       *string        `json:"color"`
	Description *string        `json:"description"`
	Stock       any            `json:"stock" swaggertype:"integer"`
	Price       any            `json:"price" swaggertype:"number"`
	ImageURL    *string        `json:"image_url"`
	Gender      *string        `json:"gender"`
	AgeGroup    *string        `json:"ageGroup"`
	Sizes       map[string]any `json:"sizes"`
	Size        *string        `json:"size"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string            `json:"id"`
	Category    string            `json:"category"`
	Name        string            `json:"name"`
	Color       string            `json:"color"`
	Description string            `json:"description"`
	Stock       int               `json:"stock"`
	Price       decimal.Decimal   `json:"price"`
	ImageURL    string            `json:"image_url"`
	Gender      string            `json:"gender,omitempty"`
	AgeGroup    string            `json:"ageGroup,omitempty"`
	Sizes       map[string]string `json:"sizes,omitempty"`
	Size        string            `json:"size,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ProductListResponse página de productos de una categoría.
type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int               `json:"total"`
	TotalPages int               `json:"totalPages"`
}

// NewProductResponse mapea la entidad a su representación JSON.
func NewProductResponse(p *entity.Product) ProductResponse {
	out := ProductResponse{
		ID:          p.ID,
		Category:    p.Category,
		Name:        p.Name,
		Color:       p.Color,
		Description: p.Description,
		Stock:       p.Stock,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Size:        p.Size,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Shoe != nil {
		out.Gender = p.Shoe.Gender
		out.AgeGroup = p.Shoe.AgeGroup
		out.Sizes = p.Shoe.Sizes
	}
	return out
}

// NewProductResponses mapea una lista; nunca devuelve nil.
func NewProductResponses(products []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, NewProductResponse(p))
	}
	return out
}
