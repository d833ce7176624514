// Package redis implementa el caché de estadísticas del dashboard sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/boutique-inventory/internal/application/ports"
	"github.com/jhoicas/boutique-inventory/pkg/config"
)

var _ ports.StatsCache = (*StatsCache)(nil)

const keyPrefix = "inventory:stats"

// commander subconjunto de *redis.Client que usa el caché.
type commander interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// StatsCache claves inventory:stats:<generación>:<clave> con TTL.
// Invalidate incrementa la generación: las entradas anteriores dejan de leerse y expiran solas.
type StatsCache struct {
	rdb commander
	ttl time.Duration
}

// NewStatsCache construye el caché sobre rdb (normalmente *redis.Client).
func NewStatsCache(rdb commander, ttl time.Duration) *StatsCache {
	return &StatsCache{rdb: rdb, ttl: ttl}
}

// Generation lee el contador de generación; ausente equivale a "0".
func (c *StatsCache) Generation(ctx context.Context) (string, error) {
	gen, err := c.rdb.Get(ctx, generationKey()).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

// Get busca key dentro de la generación gen.
func (c *StatsCache) Get(ctx context.Context, gen, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

// Set escribe bajo gen aunque ya exista una generación posterior; esa entrada no vuelve a leerse.
func (c *StatsCache) Set(ctx context.Context, gen, key string, value []byte) error {
	if err := c.rdb.Set(ctx, entryKey(gen, key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate incrementa la generación.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, generationKey()).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	return nil
}

func generationKey() string {
	return keyPrefix + ":gen"
}

func entryKey(gen, key string) string {
	return keyPrefix + ":" + gen + ":" + key
}
