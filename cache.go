package polystash

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/goelayush89/go-polystash/clock"
	"github.com/goelayush89/go-polystash/eviction"
	"github.com/goelayush89/go-polystash/storage"
)

// Entry is what the store holds for a key: the entry's own expiration
// policy and the encoded value.
type Entry struct {
	Expiration Expiration
	Payload    []byte
}

// Cache is a capacity-bounded cache of encoded values, each with its own
// Expiration. Values of different types can share one Cache; use Insert and
// Get to move typed values in and out.
type Cache struct {
	config    Config
	store     *storage.Store[string, Entry]
	codec     Codec
	clock     clock.Clock
	logger    *zap.Logger
	listeners []EvictionListener
	metrics   *Metrics
	loads     singleflight.Group

	closed    atomic.Bool
	closeOnce sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

type Option func(*Cache)

func WithClock(c clock.Clock) Option {
	return func(cache *Cache) { cache.clock = c }
}

func WithCodec(codec Codec) Option {
	return func(cache *Cache) { cache.codec = codec }
}

// WithLogger sets the logger for decode failures, listener panics and sweep
// results. A nil logger keeps the default no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cache *Cache) {
		if logger != nil {
			cache.logger = logger
		}
	}
}

// WithEvictionListener adds a listener. It may be given more than once;
// listeners are called in the order they were added.
func WithEvictionListener(l EvictionListener) Option {
	return func(cache *Cache) { cache.listeners = append(cache.listeners, l) }
}

// entryExpiry resolves each entry's own policy when the store creates it.
type entryExpiry struct{}

func (entryExpiry) ExpireAfterCreate(_ string, e Entry, _ time.Time) (time.Duration, bool) {
	return e.Expiration.Duration()
}

func New(cfg Config, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	c := &Cache{
		config:    cfg,
		codec:     GobCodec{},
		clock:     clock.Real(),
		logger:    zap.NewNop(),
		metrics:   &Metrics{},
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	store, err := storage.New(storage.Options[string, Entry]{
		MaxCapacity: cfg.MaxCapacity,
		Shards:      cfg.Shards,
		Policy:      eviction.Kind(cfg.EvictionPolicy),
		Expiry:      entryExpiry{},
		Listener:    c.onRemoval,
		Clock:       c.clock,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	c.store = store

	if cfg.SweepInterval > 0 {
		// created here so the ticker exists before New returns
		go c.sweepLoop(c.clock.NewTicker(cfg.SweepInterval))
	} else {
		close(c.stoppedCh)
	}

	return c, nil
}

func (c *Cache) sweepLoop(ticker clock.Ticker) {
	defer close(c.stoppedCh)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C():
			c.RunPendingTasks()
		}
	}
}

// Insert encodes value and stores it under key with policy exp, replacing
// any existing entry. A replaced live entry is reported as CauseReplaced.
func Insert[V any](c *Cache, key string, value V, exp Expiration) error {
	if c.closed.Load() {
		return ErrClosed
	}

	payload, err := encodeValue(c.codec, value)
	if err != nil {
		c.metrics.EncodeErrors.Add(1)
		return fmt.Errorf("insert %q: %w", key, err)
	}

	c.store.Insert(key, Entry{Expiration: exp, Payload: payload})
	c.metrics.Inserts.Add(1)
	return nil
}

// Get returns the entry's policy and its value decoded as V. Absent and
// expired keys are misses. So is a payload that does not decode as V; that
// case is logged because it means readers and writers disagree on the type.
func Get[V any](c *Cache, key string) (Expiration, V, bool) {
	var zero V
	if c.closed.Load() {
		return Never, zero, false
	}

	e, ok := c.store.Get(key)
	if !ok {
		c.metrics.Misses.Add(1)
		return Never, zero, false
	}

	v, err := decodeValue[V](c.codec, e.Payload)
	if err != nil {
		c.metrics.DecodeErrors.Add(1)
		c.metrics.Misses.Add(1)
		c.logger.Error("cached payload does not decode",
			zap.String("key", key),
			zap.String("type", typeName[V]()),
			zap.String("codec", c.codec.Name()),
			zap.Error(err),
		)
		return Never, zero, false
	}

	c.metrics.Hits.Add(1)
	return e.Expiration, v, true
}

// Expiration returns the policy of a live entry without decoding it.
func (c *Cache) Expiration(key string) (Expiration, bool) {
	if c.closed.Load() {
		return Never, false
	}
	e, ok := c.store.Get(key)
	if !ok {
		return Never, false
	}
	return e.Expiration, true
}

// Remove invalidates key and reports whether it was present. Listeners see
// CauseExplicit only for keys that were present.
func (c *Cache) Remove(key string) bool {
	if c.closed.Load() {
		return false
	}
	return c.store.Invalidate(key)
}

func (c *Cache) ContainsKey(key string) bool {
	if c.closed.Load() {
		return false
	}
	return c.store.ContainsKey(key)
}

// RunPendingTasks reaps every entry whose deadline has passed, firing
// CauseExpired for each, and returns how many were reaped. It is safe to
// call at any rate; reads still expire entries lazily without it.
func (c *Cache) RunPendingTasks() int {
	if c.closed.Load() {
		return 0
	}
	n := c.store.RunPendingTasks()
	if n > 0 {
		c.logger.Debug("reaped expired entries", zap.Int("count", n))
	}
	return n
}

// Refresh restarts the lifetime of key from now using its own policy,
// keeping its value. Never entries are left untouched. The deadline is
// moved in place under the store's lock, so a concurrent Remove or Insert
// on the same key is never undone by a refresh and no removal is reported.
func (c *Cache) Refresh(key string) error {
	if c.closed.Load() {
		return ErrClosed
	}

	e, ok := c.store.Peek(key)
	if !ok {
		return fmt.Errorf("refresh %q: %w", key, ErrKeyNotFound)
	}
	if e.Expiration.IsNever() {
		return nil
	}
	if !c.store.Renew(key) {
		return fmt.Errorf("refresh %q: %w", key, ErrKeyNotFound)
	}
	return nil
}

// Len returns the number of stored entries. Expired entries that have not
// been reaped yet are counted.
func (c *Cache) Len() int {
	return c.store.Len()
}

func (c *Cache) Config() Config { return c.config }

func (c *Cache) Logger() *zap.Logger { return c.logger }

func (c *Cache) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}

func (c *Cache) ResetMetrics() {
	c.metrics.Reset()
}

// Close stops the sweep loop. Afterwards writes fail with ErrClosed and
// reads miss. Close is idempotent.
func (c *Cache) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.stopCh)
		<-c.stoppedCh
	})
	return nil
}
