// Package storage is the concurrent, capacity-bounded store underneath the
// cache. It shards keys by hash, asks an Expiry hook for each new entry's
// lifetime, reaps expired entries lazily on reads and in bulk through
// RunPendingTasks, and reports every removal to an optional Listener.
package storage

import (
	"fmt"
	"hash/maphash"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/goelayush89/go-polystash/clock"
)

type Store[K comparable, V any] struct {
	shards   []*shard[K, V]
	mask     uint64
	seed     maphash.Seed
	clock    clock.Clock
	expiry   Expiry[K, V]
	listener Listener[K, V]
	capacity int

	// size counts entries across all shards. evictMu serializes capacity
	// enforcement so concurrent inserts do not evict past the bound.
	size    atomic.Int64
	evictMu sync.Mutex
}

func New[K comparable, V any](opts Options[K, V]) (*Store[K, V], error) {
	if opts.MaxCapacity < 0 {
		return nil, fmt.Errorf("%w: MaxCapacity cannot be negative", ErrInvalidOptions)
	}
	if opts.Shards < 0 {
		return nil, fmt.Errorf("%w: Shards cannot be negative", ErrInvalidOptions)
	}

	numShards := nextPowerOfTwo(max(opts.Shards, 1))
	if opts.MaxCapacity > 0 {
		for numShards > opts.MaxCapacity {
			numShards >>= 1
		}
	}

	s := &Store[K, V]{
		shards:   make([]*shard[K, V], numShards),
		mask:     uint64(numShards - 1),
		seed:     maphash.MakeSeed(),
		clock:    opts.Clock,
		expiry:   opts.Expiry,
		listener: opts.Listener,
		capacity: opts.MaxCapacity,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}

	for i := range s.shards {
		s.shards[i] = newShard[K, V](opts.Policy, policySizeHint(opts.MaxCapacity, numShards), &s.size)
	}

	return s, nil
}

// policySizeHint is the share of the bound a shard's policy is sized for.
// The bound itself is enforced store-wide.
func policySizeHint(total, n int) int {
	if total == 0 {
		return 0
	}
	return (total + n - 1) / n
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func (s *Store[K, V]) shardFor(key K) *shard[K, V] {
	return s.shards[maphash.Comparable(s.seed, key)&s.mask]
}

// Get returns the live value for key. An expired entry found here is
// removed and reported as CauseExpired.
func (s *Store[K, V]) Get(key K) (V, bool) {
	v, ok, removed := s.shardFor(key).get(key, s.clock.Now())
	s.notify(removed)
	return v, ok
}

// Peek is Get without recency updates or lazy reaping.
func (s *Store[K, V]) Peek(key K) (V, bool) {
	return s.shardFor(key).peek(key, s.clock.Now())
}

func (s *Store[K, V]) ContainsKey(key K) bool {
	_, ok := s.Peek(key)
	return ok
}

// Insert writes value under key, replacing any previous entry. When the
// store then holds more than MaxCapacity entries, victims are taken from the
// fullest shard until it is back within the bound.
func (s *Store[K, V]) Insert(key K, value V) {
	now := s.clock.Now()
	sh := s.shardFor(key)
	removed := sh.insert(key, value, s.deadline(key, value, now), now)
	removed = append(removed, s.enforceCapacity(sh)...)
	s.notify(removed)
}

func (s *Store[K, V]) enforceCapacity(home *shard[K, V]) []removal[K, V] {
	if s.capacity == 0 || s.size.Load() <= int64(s.capacity) {
		return nil
	}

	s.evictMu.Lock()
	defer s.evictMu.Unlock()

	var removed []removal[K, V]
	for s.size.Load() > int64(s.capacity) {
		r, ok := s.fullest(home).evict()
		if !ok {
			break
		}
		removed = append(removed, r)
	}
	return removed
}

// fullest returns the shard holding the most entries, preferring home on ties.
func (s *Store[K, V]) fullest(home *shard[K, V]) *shard[K, V] {
	best, bestLen := home, home.len()
	for _, sh := range s.shards {
		if n := sh.len(); n > bestLen {
			best, bestLen = sh, n
		}
	}
	return best
}

// Invalidate removes key and reports whether it was present.
func (s *Store[K, V]) Invalidate(key K) bool {
	r, ok := s.shardFor(key).invalidate(key)
	if ok {
		s.notify([]removal[K, V]{r})
	}
	return ok
}

// Renew asks the Expiry hook again for a live entry and moves its deadline,
// as if the entry had just been created. Value and recency are kept.
// It reports false when key is absent or already expired.
func (s *Store[K, V]) Renew(key K) bool {
	now := s.clock.Now()
	ok, removed := s.shardFor(key).renew(key, now, func(v V) time.Time {
		return s.deadline(key, v, now)
	})
	s.notify(removed)
	return ok
}

// RunPendingTasks reaps every entry whose deadline has passed and returns
// how many were removed. Shards are swept concurrently.
func (s *Store[K, V]) RunPendingTasks() int {
	now := s.clock.Now()

	var reaped atomic.Int64
	var g errgroup.Group
	for _, sh := range s.shards {
		g.Go(func() error {
			removed := sh.sweep(now)
			reaped.Add(int64(len(removed)))
			s.notify(removed)
			return nil
		})
	}
	_ = g.Wait()

	return int(reaped.Load())
}

// Len counts stored entries, including expired ones not yet reaped.
func (s *Store[K, V]) Len() int {
	return int(s.size.Load())
}

func (s *Store[K, V]) Capacity() int { return s.capacity }

func (s *Store[K, V]) deadline(key K, value V, now time.Time) time.Time {
	if s.expiry == nil {
		return time.Time{}
	}
	ttl, ok := s.expiry.ExpireAfterCreate(key, value, now)
	if !ok {
		return time.Time{}
	}
	return now.Add(max(ttl, 0))
}

func (s *Store[K, V]) notify(removed []removal[K, V]) {
	if s.listener == nil {
		return
	}
	for _, r := range removed {
		s.listener(r.key, r.value, r.cause)
	}
}
