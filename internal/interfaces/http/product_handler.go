package http

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-inventory/internal/application/catalog"
	"github.com/jhoicas/boutique-inventory/internal/application/dto"
	"github.com/jhoicas/boutique-inventory/internal/application/inventory"
	"github.com/jhoicas/boutique-inventory/internal/domain"
)

// imageField nombre del campo multipart con la imagen del producto.
const imageField = "image"

// ProductHandler maneja las peticiones HTTP de una categoría (shoes, bags o dresses).
type ProductHandler struct {
	category string
	catalog  *catalog.CatalogUseCase
	stock    *inventory.StockUseCase
	log      zerolog.Logger
}

// NewProductHandler construye el handler ligado a category.
func NewProductHandler(category string, catalogUC *catalog.CatalogUseCase, stockUC *inventory.StockUseCase, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{category: category, catalog: catalogUC, stock: stockUC, log: log}
}

// List godoc
// @Summary      Listar productos de una categoría
// @Tags         products
// @Produce      json
// @Param        category  path   string  true   "Categoría"  Enums(shoes, bags, dresses)
// @Param        page      query  int     false  "Página"     default(1)
// @Param        limit     query  int     false  "Límite"     default(20)
// @Success      200  {object}  dto.ProductListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/{category} [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 20)}
	out, err := h.catalog.List(c.UserContext(), h.category, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Grouped godoc
// @Summary      Productos agrupados por nombre
// @Tags         products
// @Produce      json
// @Param        category  path  string  true  "Categoría"  Enums(shoes, bags, dresses)
// @Success      200  {object}  map[string][]dto.ProductResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/{category}/grouped [get]
func (h *ProductHandler) Grouped(c *fiber.Ctx) error {
	out, err := h.catalog.GroupedByName(c.UserContext(), h.category)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        category  path  string  true  "Categoría"  Enums(shoes, bags, dresses)
// @Param        id        path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{category}/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.catalog.GetByID(c.UserContext(), h.category, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Description  Acepta JSON (image_url) o multipart/form-data con el archivo en el campo "image".
// @Description  El stock inicial queda registrado en el ledger como entrada "add".
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Param        category  path  string                    true  "Categoría"  Enums(shoes, bags, dresses)
// @Param        body      body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/{category} [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var (
		in    dto.CreateProductRequest
		image *inventory.ImageUpload
	)
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return badBody(c)
		}
		if in, err = createFromForm(form); err != nil {
			return writeError(c, h.log, err)
		}
		upload, closeFn, err := openImage(form)
		if err != nil {
			return writeError(c, h.log, err)
		}
		defer closeFn()
		image = upload
	} else if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	out, err := h.stock.CreateProduct(c.UserContext(), h.category, in, image)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar producto (override administrativo)
// @Description  Sobrescribe los campos enviados, stock y precio incluidos, sin registrar entrada en el ledger.
// @Tags         products
// @Accept       json,mpfd
// @Produce      json
// @Param        category  path  string                    true  "Categoría"  Enums(shoes, bags, dresses)
// @Param        id        path  string                    true  "ID del producto"
// @Param        body      body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{category}/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var (
		in    dto.UpdateProductRequest
		image *inventory.ImageUpload
	)
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return badBody(c)
		}
		if in, err = updateFromForm(form); err != nil {
			return writeError(c, h.log, err)
		}
		upload, closeFn, err := openImage(form)
		if err != nil {
			return writeError(c, h.log, err)
		}
		defer closeFn()
		image = upload
	} else if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}

	out, err := h.stock.UpdateProduct(c.UserContext(), h.category, c.Params("id"), in, image)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  El ledger conserva las entradas del producto.
// @Tags         products
// @Produce      json
// @Param        category  path  string  true  "Categoría"  Enums(shoes, bags, dresses)
// @Param        id        path  string  true  "ID del producto"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{category}/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.stock.DeleteProduct(c.UserContext(), h.category, c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Producto eliminado correctamente"})
}

// AddStock godoc
// @Summary      Agregar stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        category  path  string                  true  "Categoría"  Enums(shoes, bags, dresses)
// @Param        id        path  string                  true  "ID del producto"
// @Param        body      body  dto.StockAdjustRequest  true  "Cantidad (entero positivo)"
// @Success      200  {object}  dto.StockChangeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{category}/{id}/add [post]
func (h *ProductHandler) AddStock(c *fiber.Ctx) error {
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, h.log, domain.ErrInvalidQuantity)
	}
	out, err := h.stock.AddStockFromRequest(c.UserContext(), h.category, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeductStock godoc
// @Summary      Descontar stock (venta)
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        category  path  string                  true  "Categoría"  Enums(shoes, bags, dresses)
// @Param        id        path  string                  true  "ID del producto"
// @Param        body      body  dto.StockAdjustRequest  true  "Cantidad (entero positivo)"
// @Success      200  {object}  dto.StockChangeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{category}/{id}/deduct [post]
func (h *ProductHandler) DeductStock(c *fiber.Ctx) error {
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, h.log, domain.ErrInvalidQuantity)
	}
	out, err := h.stock.DeductStockFromRequest(c.UserContext(), h.category, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// openImage abre el archivo del campo "image" si viene en el formulario.
func openImage(form *multipart.Form) (*inventory.ImageUpload, func(), error) {
	files := form.File[imageField]
	if len(files) == 0 {
		return nil, func() {}, nil
	}
	f, err := files[0].Open()
	if err != nil {
		return nil, func() {}, fmt.Errorf("%w: no se pudo leer la imagen: %v", domain.ErrValidation, err)
	}
	return &inventory.ImageUpload{Filename: files[0].Filename, Content: f}, func() { _ = f.Close() }, nil
}

func formValue(form *multipart.Form, key string) (string, bool) {
	v, ok := form.Value[key]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

func createFromForm(form *multipart.Form) (dto.CreateProductRequest, error) {
	get := func(key string) string {
		v, _ := formValue(form, key)
		return v
	}
	in := dto.CreateProductRequest{
		Name:        get("name"),
		Color:       get("color"),
		Description: get("description"),
		ImageURL:    get("image_url"),
		Gender:      get("gender"),
		AgeGroup:    get("ageGroup"),
		Size:        get("size"),
	}
	if v, ok := formValue(form, "stock"); ok {
		in.Stock = v
	}
	if v, ok := formValue(form, "price"); ok {
		in.Price = v
	}
	sizes, err := sizesFromForm(form)
	if err != nil {
		return in, err
	}
	in.Sizes = sizes
	return in, nil
}

func updateFromForm(form *multipart.Form) (dto.UpdateProductRequest, error) {
	ptr := func(key string) *string {
		if v, ok := formValue(form, key); ok {
			return &v
		}
		return nil
	}
	in := dto.UpdateProductRequest{
		Name:        ptr("name"),
		Color:       ptr("color"),
		Description: ptr("description"),
		ImageURL:    ptr("image_url"),
		Gender:      ptr("gender"),
		AgeGroup:    ptr("ageGroup"),
		Size:        ptr("size"),
	}
	if v, ok := formValue(form, "stock"); ok {
		in.Stock = v
	}
	if v, ok := formValue(form, "price"); ok {
		in.Price = v
	}
	sizes, err := sizesFromForm(form)
	if err != nil {
		return in, err
	}
	in.Sizes = sizes
	return in, nil
}

// sizesFromForm en multipart las tallas llegan como JSON ({"US":"9","EU":"42"}).
func sizesFromForm(form *multipart.Form) (map[string]any, error) {
	raw, ok := formValue(form, "sizes")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var sizes map[string]any
	if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
		return nil, fmt.Errorf("%w: sizes debe ser un objeto JSON", domain.ErrValidation)
	}
	return sizes, nil
}
