package ports

import "context"

// StatsCache define el puerto del caché de estadísticas del dashboard.
// Los valores son JSON ya serializado. Invalidate abre una generación nueva y descarta las vigentes.
// El caller toma la generación antes de leer el estado y escribe bajo esa misma generación:
// un resultado calculado antes de una mutación nunca queda visible después de ella.
// Los errores del caché nunca deben impedir responder: el caller recalcula.
type StatsCache interface {
	Generation(ctx context.Context) (string, error)
	Get(ctx context.Context, gen, key string) ([]byte, bool, error)
	Set(ctx context.Context, gen, key string, value []byte) error
	Invalidate(ctx context.Context) error
}

// NopStatsCache caché deshabilitado (REDIS_ADDR vacío).
type NopStatsCache struct{}

// Generation devuelve siempre la generación vacía.
func (NopStatsCache) Generation(context.Context) (string, error) { return "", nil }

// Get nunca encuentra entradas.
func (NopStatsCache) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set descarta el valor.
func (NopStatsCache) Set(context.Context, string, string, []byte) error { return nil }

// Invalidate no hace nada.
func (NopStatsCache) Invalidate(context.Context) error { return nil }
