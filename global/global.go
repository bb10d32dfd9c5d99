// Package global holds one process-wide cache. Setup installs it exactly
// once; every other function here forwards to it. Before Setup succeeds,
// writes fail with polystash.ErrNotInitialized and reads come back empty.
package global

import (
	"context"
	"fmt"
	"sync/atomic"

	polystash "github.com/goelayush89/go-polystash"
)

var handle atomic.Pointer[polystash.Cache]

// Setup builds the process-wide cache. Only the first successful call
// installs a cache; later or concurrently losing calls return
// polystash.ErrAlreadyInitialized and leave the installed cache untouched.
func Setup(cfg polystash.Config, opts ...polystash.Option) error {
	if handle.Load() != nil {
		return polystash.ErrAlreadyInitialized
	}

	c, err := polystash.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("setup cache: %w", err)
	}

	if !handle.CompareAndSwap(nil, c) {
		c.Logger().Warn("discarding cache built by a concurrent setup")
		c.Close()
		return polystash.ErrAlreadyInitialized
	}
	return nil
}

// Handle returns the installed cache.
func Handle() (*polystash.Cache, error) {
	c := handle.Load()
	if c == nil {
		return nil, polystash.ErrNotInitialized
	}
	return c, nil
}

func Insert[K polystash.Key, V any](key K, value V, exp polystash.Expiration) error {
	c := handle.Load()
	if c == nil {
		return polystash.ErrNotInitialized
	}
	return polystash.Insert(c, polystash.KeyString(key), value, exp)
}

func Get[V any, K polystash.Key](key K) (polystash.Expiration, V, bool) {
	c := handle.Load()
	if c == nil {
		var zero V
		return polystash.Never, zero, false
	}
	return polystash.Get[V](c, polystash.KeyString(key))
}

func GetExpiration[K polystash.Key](key K) (polystash.Expiration, bool) {
	c := handle.Load()
	if c == nil {
		return polystash.Never, false
	}
	return c.Expiration(polystash.KeyString(key))
}

func Remove[K polystash.Key](key K) {
	if c := handle.Load(); c != nil {
		c.Remove(polystash.KeyString(key))
	}
}

func ContainsKey[K polystash.Key](key K) bool {
	c := handle.Load()
	if c == nil {
		return false
	}
	return c.ContainsKey(polystash.KeyString(key))
}

// CheckExpirationInterval reaps due entries. Call it from a scheduler, or
// set Config.SweepInterval instead.
func CheckExpirationInterval() {
	if c := handle.Load(); c != nil {
		c.RunPendingTasks()
	}
}

func Refresh[K polystash.Key](key K) error {
	c := handle.Load()
	if c == nil {
		return polystash.ErrNotInitialized
	}
	return c.Refresh(polystash.KeyString(key))
}

func GetOrLoad[V any, K polystash.Key](ctx context.Context, key K, loader polystash.Loader[V]) (V, error) {
	c := handle.Load()
	if c == nil {
		var zero V
		return zero, polystash.ErrNotInitialized
	}
	return polystash.GetOrLoad(ctx, c, polystash.KeyString(key), loader)
}
