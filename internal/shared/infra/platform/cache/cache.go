package cache

import (
	"context"
	"time"
)

// Cache es una caché clave-valor con serialización JSON.
type Cache interface {
	// Get rellena dest (puntero) y devuelve true si hay hit; (false, nil) es un miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set guarda el valor con un TTL; ttl <= 0 usa el TTL por defecto del adapter.
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}
