package cache

import "time"

// Cache defines the interface for caching services. Get returns the
// empty string for a missing key; only transport failures surface as
// errors.
type Cache interface {
	Get(key string) (string, error)
	Set(key string, value interface{}, expiration time.Duration) error
	Delete(key string) error
}

// Noop is a Cache that stores nothing. Deployments without Redis use
// it so callers never branch on a nil cache.
type Noop struct{}

func (Noop) Get(string) (string, error)                   { return "", nil }
func (Noop) Set(string, interface{}, time.Duration) error { return nil }
func (Noop) Delete(string) error                          { return nil }
