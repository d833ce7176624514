package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/boutique-inventory/internal/application/analytics"
	"github.com/jhoicas/boutique-inventory/internal/application/catalog"
	"github.com/jhoicas/boutique-inventory/internal/application/inventory"
	"github.com/jhoicas/boutique-inventory/internal/application/sales"
	"github.com/jhoicas/boutique-inventory/internal/application/snapshot"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/memory"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/boutique-inventory/internal/interfaces/http"
	"github.com/jhoicas/boutique-inventory/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la API completa sobre los adaptadores en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := logger.Nop().Component("http")
	store := memory.NewStore()
	productRepo := memory.NewProductRepo(store)
	saleRepo := memory.NewSaleRepo(store)
	loader := snapshot.NewLoader(productRepo, saleRepo).WithConsistentReads(memory.NewTxRunner(store))
	blobs := storage.NewFSBlobStore(afero.NewMemMapFs(), "/uploads")

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		CatalogUC:   catalog.NewCatalogUseCase(productRepo),
		StockUC:     inventory.NewStockUseCase(memory.NewTxRunner(store), productRepo, blobs, nil, log),
		LedgerUC:    sales.NewLedgerUseCase(saleRepo, pdf.NewMarotoReportGenerator("test")),
		DashboardUC: appanalytics.NewDashboardUseCase(loader, nil, log),
		ReconcileUC: inventory.NewReconcileUseCase(loader, log),
		Log:         log,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp, decodeObject(t, resp)
}

func decodeObject(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return out
}

func createProduct(t *testing.T, app *fiber.App, category string, body map[string]any) string {
	t.Helper()
	resp, out := doJSON(t, app, http.MethodPost, "/api/"+category, body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, out)
	id, _ := out["id"].(string)
	require.NotEmpty(t, id)
	return id
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateYDeduct_RegistraLedger(t *testing.T) {
	app := buildTestApp(t)
	id := createProduct(t, app, "shoes", map[string]any{"name": "Air", "stock": 10, "price": 100, "gender": "male"})

	resp, out := doJSON(t, app, http.MethodPost, "/api/shoes/"+id+"/deduct", map[string]any{"quantity": 3})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, out)
	assert.Equal(t, float64(7), out["stock"])
	assert.Equal(t, "Stock descontado correctamente", out["message"])
	entry := out["entry"].(map[string]any)
	assert.Equal(t, "deduct", entry["type"])
	assert.Equal(t, "300", entry["total"])

	req := httptest.NewRequest(http.MethodGet, "/api/sales/logs?productId="+id, nil)
	logsResp, err := app.Test(req, -1)
	require.NoError(t, err)
	var logs []map[string]any
	require.NoError(t, json.NewDecoder(logsResp.Body).Decode(&logs))
	require.Len(t, logs, 2)
	assert.Equal(t, "deduct", logs[0]["type"], "más reciente primero")
	assert.Equal(t, "add", logs[1]["type"])
	assert.Equal(t, float64(10), logs[1]["quantity"])
}

func TestDeduct_StockInsuficienteNoModifica(t *testing.T) {
	app := buildTestApp(t)
	id := createProduct(t, app, "bags", map[string]any{"name": "Tote", "stock": 2, "price": "50"})

	resp, out := doJSON(t, app, http.MethodPost, "/api/bags/"+id+"/deduct", map[string]any{"quantity": 5})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, out["code"])
	assert.NotEmpty(t, out["error"])

	_, product := doJSON(t, app, http.MethodGet, "/api/bags/"+id, nil)
	assert.Equal(t, float64(2), product["stock"])
}

func TestStock_CantidadInvalida(t *testing.T) {
	app := buildTestApp(t)
	id := createProduct(t, app, "dresses", map[string]any{"name": "Gala", "stock": 1, "price": 80})

	for _, q := range []any{0, -2, "abc", 1.5, nil} {
		resp, out := doJSON(t, app, http.MethodPost, "/api/dresses/"+id+"/add", map[string]any{"quantity": q})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "quantity=%v", q)
		assert.Equal(t, apphttp.CodeInvalidQuantity, out["code"])
	}

	resp, out := doJSON(t, app, http.MethodPost, "/api/dresses/"+id+"/add", map[string]any{"quantity": "4"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), out["stock"])
	assert.Equal(t, "Stock agregado correctamente", out["message"])
}

func TestProductoInexistente_404(t *testing.T) {
	app := buildTestApp(t)

	resp, out := doJSON(t, app, http.MethodGet, "/api/shoes/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, out["code"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/shoes/nope/add", map[string]any{"quantity": 1})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/bags/nope", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCategoriasIndependientes(t *testing.T) {
	app := buildTestApp(t)
	id := createProduct(t, app, "shoes", map[string]any{"name": "Air", "stock": 1, "price": 1})

	resp, _ := doJSON(t, app, http.MethodGet, "/api/bags/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListYGrouped(t *testing.T) {
	app := buildTestApp(t)
	createProduct(t, app, "dresses", map[string]any{"name": "Gala", "stock": 1, "price": 10, "size": "M"})
	createProduct(t, app, "dresses", map[string]any{"name": "Gala", "stock": 2, "price": 10, "size": "L"})
	createProduct(t, app, "dresses", map[string]any{"name": "Boho", "stock": 3, "price": 10})

	resp, out := doJSON(t, app, http.MethodGet, "/api/dresses?page=2&limit=2", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), out["total"])
	assert.Equal(t, float64(2), out["totalPages"])
	assert.Equal(t, float64(2), out["page"])
	assert.Len(t, out["data"], 1)

	resp, out = doJSON(t, app, http.MethodGet, "/api/dresses/grouped", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	gala := out["Gala"].([]any)
	require.Len(t, gala, 2)
	assert.Equal(t, "M", gala[0].(map[string]any)["size"])
	assert.Len(t, out["Boho"], 1)
}

func TestUpdateYDelete(t *testing.T) {
	app := buildTestApp(t)
	id := createProduct(t, app, "bags", map[string]any{"name": "Tote", "stock": 2, "price": 50})

	resp, out := doJSON(t, app, http.MethodPut, "/api/bags/"+id, map[string]any{"stock": 9, "color": "rojo"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, out)
	assert.Equal(t, float64(9), out["stock"])
	assert.Equal(t, "rojo", out["color"])

	resp, out = doJSON(t, app, http.MethodPut, "/api/bags/"+id, map[string]any{"stock": -1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, out["code"])

	resp, out = doJSON(t, app, http.MethodGet, "/api/dashboard/reconciliation", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, false, out["consistent"], "el override administrativo genera drift")

	resp, out = doJSON(t, app, http.MethodDelete, "/api/bags/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, out["message"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/bags/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateMultipartConImagen(t *testing.T) {
	app := buildTestApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Runner"))
	require.NoError(t, w.WriteField("stock", "4"))
	require.NoError(t, w.WriteField("price", "120.50"))
	require.NoError(t, w.WriteField("sizes", `{"US":"9","EU":"42"}`))
	fw, err := w.CreateFormFile("image", "runner.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("\x89PNG fake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/shoes", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out := decodeObject(t, resp)

	require.Equal(t, fiber.StatusCreated, resp.StatusCode, out)
	assert.Equal(t, float64(4), out["stock"])
	assert.Equal(t, "120.5", out["price"])
	assert.True(t, strings.HasPrefix(out["image_url"].(string), "/uploads/"))
	assert.True(t, strings.HasSuffix(out["image_url"].(string), ".png"))
	assert.Equal(t, "unisex", out["gender"])
	assert.Equal(t, map[string]any{"US": "9", "EU": "42"}, out["sizes"])
}

func TestCreate_NombreObligatorio(t *testing.T) {
	app := buildTestApp(t)
	resp, out := doJSON(t, app, http.MethodPost, "/api/bags", map[string]any{"stock": 1})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, out["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Ledger y dashboard
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesLogs_FechaInvalida(t *testing.T) {
	app := buildTestApp(t)
	resp, out := doJSON(t, app, http.MethodGet, "/api/sales/logs?start=16-10-2026", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, out["code"])
}

func TestSalesReport_PDF(t *testing.T) {
	app := buildTestApp(t)
	createProduct(t, app, "shoes", map[string]any{"name": "Air", "stock": 3, "price": 10})

	req := httptest.NewRequest(http.MethodGet, "/api/sales/logs/report", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "ledger-")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestDashboardStats(t *testing.T) {
	app := buildTestApp(t)
	id := createProduct(t, app, "shoes", map[string]any{"name": "Air", "stock": 10, "price": 100})
	createProduct(t, app, "bags", map[string]any{"name": "Clutch", "stock": 2, "price": 50})
	doJSON(t, app, http.MethodPost, "/api/shoes/"+id+"/deduct", map[string]any{"quantity": 3})

	resp, out := doJSON(t, app, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, out)
	summary := out["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["totalProducts"])
	assert.Equal(t, float64(9), summary["totalStock"])
	assert.Equal(t, float64(3), summary["totalSales"])
	assert.Equal(t, float64(12), summary["totalRestocked"])
	assert.Len(t, out["salesTrend"], 7)
	assert.Equal(t, map[string]any{"shoes": float64(3), "bags": float64(0), "dresses": float64(0)}, out["salesByCategory"])

	resp, out = doJSON(t, app, http.MethodGet, "/api/dashboard/inventory-status", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), out["inStock"])
	assert.Equal(t, float64(1), out["lowStock"])

	resp, out = doJSON(t, app, http.MethodGet, "/api/dashboard/sales-analytics?period=week", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "week", out["period"])

	resp, out = doJSON(t, app, http.MethodGet, "/api/dashboard/stats?startDate=2026-13-01", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, out["code"])
}

func TestRutaInexistente_ErrorJSON(t *testing.T) {
	app := buildTestApp(t)
	resp, out := doJSON(t, app, http.MethodGet, "/api/jackets", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, out["code"])
}
