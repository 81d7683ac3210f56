package cache

import "time"

// Store is the key-value contract the feed cache is built on. Values are
// opaque strings (the service stores JSON-encoded event lists); a missing or
// expired key is reported via the bool, not an error.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Close() error
}
