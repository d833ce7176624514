// Package catalog contiene las consultas de solo lectura sobre el catálogo.
package catalog

import (
	"context"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/domain"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// CatalogUseCase paginación, búsqueda por id y vista agrupada por nombre. No modifica nada.
type CatalogUseCase struct {
	repo repository.ProductRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.ProductRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// List devuelve una página de la categoría. page < 1 -> 1, limit < 1 -> 20.
func (uc *CatalogUseCase) List(ctx context.Context, category string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	if !entity.IsValidCategory(category) {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()

	total, err := uc.repo.Count(ctx, category)
	if err != nil {
		return nil, err
	}
	products, err := uc.repo.List(ctx, category, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Data:       dto.NewProductResponses(products),
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: (total + page.Limit - 1) / page.Limit,
	}, nil
}

// GetByID devuelve domain.ErrNotFound si el id no existe en la categoría.
func (uc *CatalogUseCase) GetByID(ctx context.Context, category, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, category, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(p)
	return &out, nil
}

// GroupedByName agrupa la categoría por nombre; dentro de cada grupo se respeta el orden de inserción.
func (uc *CatalogUseCase) GroupedByName(ctx context.Context, category string) (map[string][]dto.ProductResponse, error) {
	if !entity.IsValidCategory(category) {
		return nil, domain.ErrNotFound
	}
	products, err := uc.repo.ListAll(ctx, category)
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]dto.ProductResponse)
	for _, p := range products {
		groups[p.Name] = append(groups[p.Name], dto.NewProductResponse(p))
	}
	return groups, nil
}
