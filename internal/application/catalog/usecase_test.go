package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-inventory/internal/application/catalog"
	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/domain"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/memory"
)

func seed(t *testing.T, repo *memory.ProductRepo, category string, names ...string) {
	t.Helper()
	for i, n := range names {
		require.NoError(t, repo.Create(context.Background(), &entity.Product{
			ID: fmt.Sprintf("%s-%d", category, i), Category: category, Name: n, Stock: i,
		}))
	}
}

func TestList_Paginacion(t *testing.T) {
	repo := memory.NewProductRepo(memory.NewStore())
	seed(t, repo, entity.CategoryShoes, "a", "b", "c", "d", "e")
	uc := catalog.NewCatalogUseCase(repo)

	out, err := uc.List(context.Background(), entity.CategoryShoes, dto.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 2, out.Limit)
	assert.Equal(t, 5, out.Total)
	assert.Equal(t, 3, out.TotalPages)
	require.Len(t, out.Data, 2)
	assert.Equal(t, "c", out.Data[0].Name)
}

func TestList_ValoresPorDefecto(t *testing.T) {
	repo := memory.NewProductRepo(memory.NewStore())
	seed(t, repo, entity.CategoryBags, "a")
	uc := catalog.NewCatalogUseCase(repo)

	out, err := uc.List(context.Background(), entity.CategoryBags, dto.PageRequest{Page: 0, Limit: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 20, out.Limit)
	assert.Equal(t, 1, out.TotalPages)

	empty, err := uc.List(context.Background(), entity.CategoryDresses, dto.PageRequest{})
	require.NoError(t, err)
	assert.NotNil(t, empty.Data)
	assert.Zero(t, empty.TotalPages)
}

func TestGetByID_NoResuelveOtraCategoria(t *testing.T) {
	repo := memory.NewProductRepo(memory.NewStore())
	seed(t, repo, entity.CategoryShoes, "Air")
	uc := catalog.NewCatalogUseCase(repo)

	_, err := uc.GetByID(context.Background(), entity.CategoryDresses, "shoes-0")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err := uc.GetByID(context.Background(), entity.CategoryShoes, "shoes-0")
	require.NoError(t, err)
	assert.Equal(t, "Air", p.Name)
}

func TestGroupedByName_ConservaOrdenDeInsercion(t *testing.T) {
	repo := memory.NewProductRepo(memory.NewStore())
	seed(t, repo, entity.CategoryBags, "Clutch", "Tote", "Clutch")
	uc := catalog.NewCatalogUseCase(repo)

	groups, err := uc.GroupedByName(context.Background(), entity.CategoryBags)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	require.Len(t, groups["Clutch"], 2)
	assert.Equal(t, "bags-0", groups["Clutch"][0].ID)
	assert.Equal(t, "bags-2", groups["Clutch"][1].ID)
	assert.Len(t, groups["Tote"], 1)
}
