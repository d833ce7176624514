package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/boutique-inventory/docs"
	appanalytics "github.com/jhoicas/boutique-inventory/internal/application/analytics"
	"github.com/jhoicas/boutique-inventory/internal/application/catalog"
	"github.com/jhoicas/boutique-inventory/internal/application/inventory"
	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/internal/application/sales"
	"github.com/jhoicas/boutique-inventory/internal/application/snapshot"
	"github.com/jhoicas/boutique-inventory/internal/domain/repository"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/boutique-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/boutique-inventory/internal/infrastructure/redis"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/scheduler"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/boutique-inventory/internal/interfaces/http"
	"github.com/jhoicas/boutique-inventory/pkg/config"
	"github.com/jhoicas/boutique-inventory/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// persistence repositorios y unidad de trabajo del driver elegido.
type persistence struct {
	products repository.ProductRepository
	sales    repository.SaleRepository
	tx       inventory.TxRunner
	reads    snapshot.ReadRunner
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openPersistence(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.close()

	blobs, err := storage.NewLocalBlobStore(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Upload.Dir).Msg("directorio de imágenes")
	}

	var statsCache ports.StatsCache = ports.NopStatsCache{}
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer rdb.Close()
			statsCache = infraredis.NewStatsCache(rdb, cfg.Redis.StatsTTL)
			log.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Redis.StatsTTL).Msg("caché de estadísticas en redis")
		}
	}

	loader := snapshot.NewLoader(store.products, store.sales).WithConsistentReads(store.reads)
	catalogUC := catalog.NewCatalogUseCase(store.products)
	stockUC := inventory.NewStockUseCase(store.tx, store.products, blobs, statsCache, log.Component("inventory"))
	ledgerUC := sales.NewLedgerUseCase(store.sales, infrapdf.NewMarotoReportGenerator(cfg.App.Name))
	dashboardUC := appanalytics.NewDashboardUseCase(loader, statsCache, log.Component("dashboard"))
	reconcileUC := inventory.NewReconcileUseCase(loader, log.Component("reconcile"))

	jobs := scheduler.New(time.Local, log.Component("scheduler"))
	if _, err := jobs.AddJob(cfg.Reconcile.Schedule, "reconcile", reconcileUC.RunAndLog); err != nil {
		log.Fatal().Err(err).Msg("programar conciliación")
	}
	jobs.Start()

	httpLog := log.Component("http")
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.Upload.MaxMB * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler(httpLog),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(httpLog))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		docs.SwaggerInfo.Host = cfg.HTTP.Addr()
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	}

	app.Static(cfg.Upload.URLPrefix, cfg.Upload.Dir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:   catalogUC,
		StockUC:     stockUC,
		LedgerUC:    ledgerUC,
		DashboardUC: dashboardUC,
		ReconcileUC: reconcileUC,
		Log:         httpLog,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	jobs.Stop()

	log.Info().Msg("aplicación detenida")
}

func openPersistence(ctx context.Context, cfg *config.Config, log *logger.Logger) (*persistence, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		mem := memory.NewStore()
		return &persistence{
			products: memory.NewProductRepo(mem),
			sales:    memory.NewSaleRepo(mem),
			tx:       memory.NewTxRunner(mem),
			reads:    memory.NewTxRunner(mem),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &persistence{
		products: postgres.NewProductRepository(pool),
		sales:    postgres.NewSaleRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		reads:    postgres.NewSnapshotRunner(pool),
		close:    pool.Close,
	}, nil
}
