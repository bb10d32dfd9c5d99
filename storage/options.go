package storage

import (
	"errors"
	"time"

	"github.com/goelayush89/go-polystash/clock"
	"github.com/goelayush89/go-polystash/eviction"
)

var ErrInvalidOptions = errors.New("storage: invalid options")

// Expiry tells the store how long a freshly written entry lives.
// Returning false means the entry never expires.
type Expiry[K comparable, V any] interface {
	ExpireAfterCreate(key K, value V, now time.Time) (time.Duration, bool)
}

type ExpiryFunc[K comparable, V any] func(key K, value V, now time.Time) (time.Duration, bool)

func (f ExpiryFunc[K, V]) ExpireAfterCreate(key K, value V, now time.Time) (time.Duration, bool) {
	return f(key, value, now)
}

// Listener observes removals. It runs after the shard lock is released,
// on the goroutine whose call caused the removal.
type Listener[K comparable, V any] func(key K, value V, cause RemovalCause)

type Options[K comparable, V any] struct {
	// MaxCapacity bounds the number of entries; 0 means unbounded.
	MaxCapacity int
	// Shards is rounded up to a power of two and capped by MaxCapacity.
	Shards   int
	Policy   eviction.Kind
	Expiry   Expiry[K, V]
	Listener Listener[K, V]
	Clock    clock.Clock
}
