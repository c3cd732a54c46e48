package registry

import "github.com/matst80/telbridge/internal/obs"

// NewStore creates either the in-memory session table or a Redis-mirrored one
// based on configuration.
func NewStore(redisAddr, redisPassword string, redisDB int) (Store, error) {
	if redisAddr == "" {
		obs.Info("registry.backend", obs.Fields{"type": "in-memory"})
		return NewMemoryStore(), nil
	}
	obs.Info("registry.backend", obs.Fields{"type": "redis", "addr": redisAddr})
	return NewRedisStore(redisAddr, redisPassword, redisDB)
}
