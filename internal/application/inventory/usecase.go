package inventory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/internal/domain"
	"github.com/jhoicas/boutique-inventory/internal/domain/entity"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
)

// ImageUpload imagen opcional recibida junto con el alta o la edición de un producto.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

// StockUseCase es el servicio de mutación de stock: cada alta, reposición o venta escribe
// el catálogo y el ledger dentro de la misma unidad de trabajo (TxRunner).
// Update y Delete son el camino administrativo y no generan entradas en el ledger.
type StockUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	blobs       ports.BlobStore
	cache       ports.StatsCache
	log         zerolog.Logger
	now         func() time.Time
}

// NewStockUseCase construye el caso de uso. blobs y cache pueden ser nil.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	blobs ports.BlobStore,
	cache ports.StatsCache,
	log zerolog.Logger,
) *StockUseCase {
	if cache == nil {
		cache = ports.NopStatsCache{}
	}
	return &StockUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		blobs:       blobs,
		cache:       cache,
		log:         log,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *StockUseCase) WithClock(now func() time.Time) *StockUseCase {
	uc.now = now
	return uc
}

// CreateProduct da de alta un producto y registra el stock inicial como entrada "add".
// Stock y precio se interpretan de forma permisiva; con stock 0 no se escribe ledger.
func (uc *StockUseCase) CreateProduct(
	ctx context.Context,
	category string,
	in dto.CreateProductRequest,
	image *ImageUpload,
) (*dto.ProductResponse, error) {
	if !entity.IsValidCategory(category) {
		return nil, fmt.Errorf("%w: categoría desconocida %q", domain.ErrValidation, category)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrValidation)
	}

	now := uc.now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		Category:    category,
		Name:        name,
		Color:       strings.TrimSpace(in.Color),
		Description: in.Description,
		Stock:       lenientStock(in.Stock),
		Price:       lenientPrice(in.Price),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if category == entity.CategoryShoes {
		shoe, err := newShoeDetails(in.Gender, in.AgeGroup, in.Sizes)
		if err != nil {
			return nil, err
		}
		p.Shoe = shoe
	} else {
		p.Size = strings.TrimSpace(in.Size)
	}

	if image != nil {
		url, err := uc.saveImage(ctx, image)
		if err != nil {
			return nil, err
		}
		p.ImageURL = url
	}

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		if err := productRepo.Create(ctx, p); err != nil {
			return err
		}
		if p.Stock == 0 {
			return nil
		}
		entry := entity.NewSaleEntry(uuid.New().String(), p, entity.SaleTypeAdd, p.Stock, now)
		return saleRepo.Append(ctx, entry)
	})
	if err != nil {
		if image != nil {
			uc.discardImage(ctx, p.ImageURL)
		}
		return nil, err
	}

	uc.invalidateStats(ctx)
	uc.log.Info().
		Str("category", category).
		Str("product_id", p.ID).
		Int("stock", p.Stock).
		Msg("producto creado")

	out := dto.NewProductResponse(p)
	return &out, nil
}

// AddStock suma quantity al stock y registra una entrada "add" con total = precio × cantidad.
func (uc *StockUseCase) AddStock(ctx context.Context, category, id string, quantity int) (*dto.StockChangeResponse, error) {
	return uc.adjust(ctx, category, id, entity.SaleTypeAdd, quantity)
}

// DeductStock descuenta quantity del stock y registra una entrada "deduct".
// Falla con domain.ErrInsufficientStock sin modificar nada si quantity supera el stock.
func (uc *StockUseCase) DeductStock(ctx context.Context, category, id string, quantity int) (*dto.StockChangeResponse, error) {
	return uc.adjust(ctx, category, id, entity.SaleTypeDeduct, quantity)
}

// AddStockFromRequest adapta el body HTTP {quantity} a AddStock.
func (uc *StockUseCase) AddStockFromRequest(ctx context.Context, category, id string, in dto.StockAdjustRequest) (*dto.StockChangeResponse, error) {
	q, err := ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	return uc.AddStock(ctx, category, id, q)
}

// DeductStockFromRequest adapta el body HTTP {quantity} a DeductStock.
func (uc *StockUseCase) DeductStockFromRequest(ctx context.Context, category, id string, in dto.StockAdjustRequest) (*dto.StockChangeResponse, error) {
	q, err := ParseQuantity(in.Quantity)
	if err != nil {
		return nil, err
	}
	return uc.DeductStock(ctx, category, id, q)
}

// adjust aplica el cambio de stock con un update atómico condicionado y, en la misma
// unidad de trabajo, agrega la entrada al ledger.
func (uc *StockUseCase) adjust(ctx context.Context, category, id, saleType string, quantity int) (*dto.StockChangeResponse, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !entity.IsValidCategory(category) {
		return nil, fmt.Errorf("%w: categoría desconocida %q", domain.ErrValidation, category)
	}
	delta := quantity
	if saleType == entity.SaleTypeDeduct {
		delta = -quantity
	}

	now := uc.now()
	var (
		product *entity.Product
		entry   *entity.SaleEntry
	)
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		p, err := productRepo.AdjustStock(ctx, category, id, delta)
		if err != nil {
			return err
		}
		e := entity.NewSaleEntry(uuid.New().String(), p, saleType, quantity, now)
		if err := saleRepo.Append(ctx, e); err != nil {
			return err
		}
		product, entry = p, e
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).
			Str("category", category).
			Str("product_id", id).
			Str("type", saleType).
			Int("quantity", quantity).
			Msg("movimiento de stock rechazado")
		return nil, err
	}

	uc.invalidateStats(ctx)
	uc.log.Info().
		Str("category", category).
		Str("product_id", id).
		Str("type", saleType).
		Int("quantity", quantity).
		Int("stock", product.Stock).
		Msg("movimiento de stock registrado")

	msg := "Stock agregado correctamente"
	if saleType == entity.SaleTypeDeduct {
		msg = "Stock descontado correctamente"
	}
	return &dto.StockChangeResponse{
		Message: msg,
		Stock:   product.Stock,
		Data:    dto.NewProductResponse(product),
		Entry:   dto.NewSaleEntryResponse(entry),
	}, nil
}

// UpdateProduct sobrescribe los campos presentes (stock y precio incluidos) sin tocar el ledger.
// Un stock o precio negativo se rechaza con domain.ErrValidation.
// La lectura y la escritura ocurren en la misma unidad de trabajo con la fila bloqueada:
// un descuento concurrente se aplica antes o después, nunca se pierde.
func (uc *StockUseCase) UpdateProduct(
	ctx context.Context,
	category, id string,
	in dto.UpdateProductRequest,
	image *ImageUpload,
) (*dto.ProductResponse, error) {
	var imageURL string
	if image != nil {
		url, err := uc.saveImage(ctx, image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.SaleRepository) error {
		p, err := productRepo.GetForUpdate(ctx, category, id)
		if err != nil {
			return err
		}
		if err := applyUpdate(p, in); err != nil {
			return err
		}
		if imageURL != "" {
			p.ImageURL = imageURL
		}
		p.UpdatedAt = uc.now()
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		if imageURL != "" {
			uc.discardImage(ctx, imageURL)
		}
		return nil, err
	}

	uc.invalidateStats(ctx)
	uc.log.Info().
		Str("category", category).
		Str("product_id", id).
		Int("stock", updated.Stock).
		Msg("producto actualizado (override administrativo)")

	out := dto.NewProductResponse(updated)
	return &out, nil
}

// applyUpdate copia sobre p solo los campos presentes en in.
func applyUpdate(p *entity.Product, in dto.UpdateProductRequest) error {
	var err error
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrValidation)
		}
		p.Name = name
	}
	if in.Color != nil {
		p.Color = strings.TrimSpace(*in.Color)
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Stock != nil {
		if p.Stock, err = strictStock(in.Stock); err != nil {
			return err
		}
	}
	if in.Price != nil {
		if p.Price, err = strictPrice(in.Price); err != nil {
			return err
		}
	}
	if in.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if p.Category == entity.CategoryShoes {
		return applyShoeUpdate(p, in)
	}
	if in.Size != nil {
		p.Size = strings.TrimSpace(*in.Size)
	}
	return nil
}

// DeleteProduct elimina el producto. El ledger conserva sus entradas.
func (uc *StockUseCase) DeleteProduct(ctx context.Context, category, id string) error {
	if err := uc.productRepo.Delete(ctx, category, id); err != nil {
		return err
	}
	uc.invalidateStats(ctx)
	uc.log.Info().Str("category", category).Str("product_id", id).Msg("producto eliminado")
	return nil
}

func (uc *StockUseCase) saveImage(ctx context.Context, image *ImageUpload) (string, error) {
	if uc.blobs == nil {
		return "", fmt.Errorf("%w: no hay almacenamiento de imágenes configurado", domain.ErrValidation)
	}
	url, err := uc.blobs.Save(ctx, image.Filename, image.Content)
	if err != nil {
		return "", fmt.Errorf("guardar imagen: %w", err)
	}
	return url, nil
}

// discardImage borra una imagen recién guardada cuya escritura en el catálogo falló.
func (uc *StockUseCase) discardImage(ctx context.Context, url string) {
	if err := uc.blobs.Delete(ctx, url); err != nil {
		uc.log.Warn().Err(err).Str("image_url", url).Msg("no se pudo borrar la imagen huérfana")
	}
}

func (uc *StockUseCase) invalidateStats(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar el caché de estadísticas")
	}
}

func newShoeDetails(gender, ageGroup string, sizes map[string]any) (*entity.ShoeDetails, error) {
	shoe := &entity.ShoeDetails{
		Gender:   entity.GenderUnisex,
		AgeGroup: entity.AgeGroupAdult,
		Sizes:    toSizes(sizes),
	}
	if g := strings.ToLower(strings.TrimSpace(gender)); g != "" {
		if !validGender(g) {
			return nil, fmt.Errorf("%w: gender inválido %q", domain.ErrValidation, gender)
		}
		shoe.Gender = g
	}
	if a := strings.ToLower(strings.TrimSpace(ageGroup)); a != "" {
		if !validAgeGroup(a) {
			return nil, fmt.Errorf("%w: ageGroup inválido %q", domain.ErrValidation, ageGroup)
		}
		shoe.AgeGroup = a
	}
	if shoe.Sizes == nil {
		shoe.Sizes = map[string]string{}
	}
	return shoe, nil
}

func applyShoeUpdate(p *entity.Product, in dto.UpdateProductRequest) error {
	if p.Shoe == nil {
		p.Shoe = &entity.ShoeDetails{Gender: entity.GenderUnisex, AgeGroup: entity.AgeGroupAdult, Sizes: map[string]string{}}
	}
	if in.Gender != nil {
		g := strings.ToLower(strings.TrimSpace(*in.Gender))
		if !validGender(g) {
			return fmt.Errorf("%w: gender inválido %q", domain.ErrValidation, *in.Gender)
		}
		p.Shoe.Gender = g
	}
	if in.AgeGroup != nil {
		a := strings.ToLower(strings.TrimSpace(*in.AgeGroup))
		if !validAgeGroup(a) {
			return fmt.Errorf("%w: ageGroup inválido %q", domain.ErrValidation, *in.AgeGroup)
		}
		p.Shoe.AgeGroup = a
	}
	if in.Sizes != nil {
		p.Shoe.Sizes = toSizes(in.Sizes)
	}
	return nil
}

func validGender(g string) bool {
	return g == entity.GenderMale || g == entity.GenderFemale || g == entity.GenderUnisex
}

func validAgeGroup(a string) bool {
	return a == entity.AgeGroupAdult || a == entity.AgeGroupChild
}
