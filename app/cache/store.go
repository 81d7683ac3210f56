package cache

import "fmt"

// NewStore builds the configured cache backend.
func NewStore(backend, redisAddr, sqlitePath string) (Store, error) {
	switch backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(redisAddr)
	case "sqlite":
		return NewSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
}
