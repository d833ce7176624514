// seed_catalog da de alta productos en bloque desde un CSV usando el mismo caso de uso que la API,
// de modo que el stock inicial de cada fila queda registrado en el ledger.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.csv] [latin1]
// Por defecto lee catalogo.csv en UTF-8. Usa la misma configuración (DB_*, REDIS_*) que cmd/api.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/boutique-inventory/internal/application/inventory"
	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/csvimport"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/boutique-inventory/internal/infrastructure/redis"
	"github.com/jhoicas/boutique-inventory/internal/infrastructure/storage"
	"github.com/jhoicas/boutique-inventory/pkg/config"
	"github.com/jhoicas/boutique-inventory/pkg/logger"
)

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	latin1 := len(os.Args) > 2 && strings.EqualFold(os.Args[2], "latin1")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := csvimport.Read(f, latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema")
	}

	blobs, err := storage.NewLocalBlobStore(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de imágenes")
	}

	// Invalidar el caché del dashboard de la API si está activo
	var statsCache ports.StatsCache = ports.NopStatsCache{}
	if cfg.Redis.Enabled() {
		if rdb, err := infraredis.NewClient(ctx, cfg.Redis); err == nil {
			defer rdb.Close()
			statsCache = infraredis.NewStatsCache(rdb, cfg.Redis.StatsTTL)
		} else {
			log.Warn().Err(err).Msg("redis no disponible, el dashboard se actualizará al expirar el TTL")
		}
	}

	productRepo := postgres.NewProductRepository(pool)
	stockUC := inventory.NewStockUseCase(postgres.NewTxRunner(pool), productRepo, blobs, statsCache, log.Component("seed"))

	var created, failed int
	for _, row := range rows {
		p, err := stockUC.CreateProduct(ctx, row.Category, row.Product, nil)
		if err != nil {
			failed++
			log.Error().Err(err).Int("line", row.Line).Str("name", row.Product.Name).Msg("fila rechazada")
			continue
		}
		created++
		log.Debug().Int("line", row.Line).Str("category", p.Category).Str("id", p.ID).Int("stock", p.Stock).Msg("producto creado")
	}

	fmt.Printf("Importado %s: %d productos creados, %d filas rechazadas\n", csvPath, created, failed)
	if failed > 0 {
		os.Exit(2)
	}
}
