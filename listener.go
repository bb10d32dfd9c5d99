package polystash

import (
	"go.uber.org/zap"

	"github.com/goelayush89/go-polystash/storage"
)

// Cause says why an entry left the cache.
type Cause = storage.RemovalCause

const (
	CauseExplicit = storage.CauseExplicit
	CauseReplaced = storage.CauseReplaced
	CauseExpired  = storage.CauseExpired
	CauseCapacity = storage.CauseCapacity
)

// EvictionListener observes every entry that leaves the cache.
//
// OnEviction runs on the goroutine of the Insert, Get, Remove or Refresh
// call that caused the removal. RunPendingTasks sweeps shards in parallel
// and reports each shard's removals from its own goroutine, so a listener
// may be called concurrently and must be safe for concurrent use. It is
// never called with store locks held, so it may use the cache.
type EvictionListener interface {
	OnEviction(key string, entry Entry, cause Cause)
}

type EvictionListenerFunc func(key string, entry Entry, cause Cause)

func (f EvictionListenerFunc) OnEviction(key string, entry Entry, cause Cause) {
	f(key, entry, cause)
}

func (c *Cache) onRemoval(key string, entry Entry, cause Cause) {
	switch cause {
	case CauseExplicit:
		c.metrics.Removals.Add(1)
	case CauseReplaced:
		c.metrics.Replacements.Add(1)
	case CauseExpired:
		c.metrics.Expirations.Add(1)
	case CauseCapacity:
		c.metrics.Evictions.Add(1)
	}

	for _, l := range c.listeners {
		c.dispatch(l, key, entry, cause)
	}
}

func (c *Cache) dispatch(l EvictionListener, key string, entry Entry, cause Cause) {
	defer func() {
		if r := recover(); r != nil {
			c.metrics.ListenerPanics.Add(1)
			c.logger.Error("eviction listener panicked",
				zap.String("key", key),
				zap.Stringer("cause", cause),
				zap.Any("panic", r),
			)
		}
	}()
	l.OnEviction(key, entry, cause)
}
