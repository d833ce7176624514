package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/boutique-inventory/internal/domain"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `category, id, name, color, description, stock, price, image_url,
		gender, age_group, sizes, size, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	gender, ageGroup, sizes, err := shoeColumns(p)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = r.q.Exec(ctx, query,
		p.Category, p.ID, p.Name, p.Color, p.Description, p.Stock, p.Price, p.ImageURL,
		gender, ageGroup, sizes, p.Size, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) || isCheckViolation(err) {
			return errors.Join(domain.ErrValidation, err)
		}
		return persistenceErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por categoría e id.
func (r *ProductRepo) GetByID(ctx context.Context, category, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 AND id = $2`
	return r.get(ctx, "get product", query, category, id)
}

// GetForUpdate obtiene el producto con SELECT ... FOR UPDATE. Usar dentro de TxRunner.Run:
// los AdjustStock concurrentes esperan al commit en lugar de perderse.
func (r *ProductRepo) GetForUpdate(ctx context.Context, category, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 AND id = $2 FOR UPDATE`
	return r.get(ctx, "get product for update", query, category, id)
}

func (r *ProductRepo) get(ctx context.Context, op, query, category, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, category, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, persistenceErr(op, err)
	}
	return p, nil
}

// List lista una página de la categoría en orden de inserción.
func (r *ProductRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY seq LIMIT $2 OFFSET $3`
	return r.query(ctx, "list products", query, category, limit, offset)
}

// ListAll lista la categoría completa en orden de inserción.
func (r *ProductRepo) ListAll(ctx context.Context, category string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY seq`
	return r.query(ctx, "list all products", query, category)
}

// Count devuelve el número de productos de la categoría.
func (r *ProductRepo) Count(ctx context.Context, category string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category = $1`, category).Scan(&n); err != nil {
		return 0, persistenceErr("count products", err)
	}
	return n, nil
}

// Update sobrescribe los campos editables, stock incluido (override administrativo).
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	gender, ageGroup, sizes, err := shoeColumns(p)
	if err != nil {
		return err
	}
	query := `
		UPDATE products SET name = $3, color = $4, description = $5, stock = $6, price = $7,
			image_url = $8, gender = $9, age_group = $10, sizes = $11, size = $12, updated_at = $13
		WHERE category = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.Category, p.ID, p.Name, p.Color, p.Description, p.Stock, p.Price,
		p.ImageURL, gender, ageGroup, sizes, p.Size, p.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return errors.Join(domain.ErrValidation, err)
		}
		return persistenceErr("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock aplica delta con un UPDATE condicionado (stock + delta >= 0) en una sola sentencia:
// dos llamadas concurrentes nunca pueden dejar el stock negativo.
func (r *ProductRepo) AdjustStock(ctx context.Context, category, id string, delta int) (*entity.Product, error) {
	query := `
		UPDATE products SET stock = stock + $3, updated_at = now()
		WHERE category = $1 AND id = $2 AND stock + $3 >= 0
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query, category, id, delta))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, persistenceErr("adjust stock", err)
	}

	// Sin filas: o el producto no existe o el stock no alcanza.
	var exists bool
	err = r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE category = $1 AND id = $2)`, category, id).Scan(&exists)
	if err != nil {
		return nil, persistenceErr("adjust stock", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientStock
}

// Delete elimina el producto; el ledger no se toca.
func (r *ProductRepo) Delete(ctx context.Context, category, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE category = $1 AND id = $2`, category, id)
	if err != nil {
		return persistenceErr("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, persistenceErr(op, err)
	}
	defer rows.Close()

	out := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, persistenceErr(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr(op, err)
	}
	return out, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p        entity.Product
		gender   *string
		ageGroup *string
		sizes    []byte
	)
	err := row.Scan(
		&p.Category, &p.ID, &p.Name, &p.Color, &p.Description, &p.Stock, &p.Price, &p.ImageURL,
		&gender, &ageGroup, &sizes, &p.Size, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Category == entity.CategoryShoes {
		shoe := &entity.ShoeDetails{
			Gender:   entity.GenderUnisex,
			AgeGroup: entity.AgeGroupAdult,
			Sizes:    map[string]string{},
		}
		if gender != nil {
			shoe.Gender = *gender
		}
		if ageGroup != nil {
			shoe.AgeGroup = *ageGroup
		}
		if len(sizes) > 0 {
			if err := json.Unmarshal(sizes, &shoe.Sizes); err != nil {
				return nil, err
			}
		}
		p.Shoe = shoe
	}
	return &p, nil
}

// shoeColumns valores de las columnas propias de zapatos (NULL para el resto).
func shoeColumns(p *entity.Product) (gender, ageGroup *string, sizes []byte, err error) {
	if p.Shoe == nil {
		return nil, nil, nil, nil
	}
	sizes, err = json.Marshal(p.Shoe.Sizes)
	if err != nil {
		return nil, nil, nil, persistenceErr("encode sizes", err)
	}
	return &p.Shoe.Gender, &p.Shoe.AgeGroup, sizes, nil
}
