package storage

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goelayush89/go-polystash/eviction"
)

type record[V any] struct {
	value     V
	expiresAt time.Time
}

func (r record[V]) expired(now time.Time) bool {
	return !r.expiresAt.IsZero() && !now.Before(r.expiresAt)
}

type shard[K comparable, V any] struct {
	mu        sync.Mutex
	items     *Memory[K, record[V]]
	deadlines *eviction.Deadlines[K]
	policy    eviction.Policy[K]
	// size is the store-wide entry count, shared by every shard.
	size *atomic.Int64
}

func newShard[K comparable, V any](kind eviction.Kind, sizeHint int, size *atomic.Int64) *shard[K, V] {
	return &shard[K, V]{
		items:     NewMemory[K, record[V]](),
		deadlines: eviction.NewDeadlines[K](),
		policy:    eviction.New[K](kind, sizeHint),
		size:      size,
	}
}

func (s *shard[K, V]) get(key K, now time.Time) (V, bool, []removal[K, V]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	rec, ok := s.items.Load(key)
	if !ok {
		return zero, false, nil
	}
	if rec.expired(now) {
		s.drop(key)
		return zero, false, []removal[K, V]{{key, rec.value, CauseExpired}}
	}

	s.policy.OnAccess(key)
	return rec.value, true, nil
}

func (s *shard[K, V]) peek(key K, now time.Time) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	rec, ok := s.items.Load(key)
	if !ok || rec.expired(now) {
		return zero, false
	}
	return rec.value, true
}

func (s *shard[K, V]) insert(key K, value V, expiresAt time.Time, now time.Time) []removal[K, V] {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []removal[K, V]
	if old, ok := s.items.Load(key); ok {
		cause := CauseReplaced
		if old.expired(now) {
			cause = CauseExpired
		}
		removed = append(removed, removal[K, V]{key, old.value, cause})
	} else {
		s.size.Add(1)
	}

	s.items.Store(key, record[V]{value: value, expiresAt: expiresAt})
	s.deadlines.Schedule(key, expiresAt)
	s.policy.OnInsert(key)

	return removed
}

// evict drops the policy's victim for capacity.
func (s *shard[K, V]) evict() (removal[K, V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	victim, ok := s.policy.Victim()
	if !ok {
		return removal[K, V]{}, false
	}
	rec, ok := s.drop(victim)
	if !ok {
		return removal[K, V]{}, false
	}
	return removal[K, V]{victim, rec.value, CauseCapacity}, true
}

func (s *shard[K, V]) invalidate(key K) (removal[K, V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.drop(key)
	if !ok {
		return removal[K, V]{}, false
	}
	return removal[K, V]{key, rec.value, CauseExplicit}, true
}

// renew replaces the deadline of a live entry in place. next computes the
// new deadline from the stored value.
func (s *shard[K, V]) renew(key K, now time.Time, next func(V) time.Time) (bool, []removal[K, V]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items.Load(key)
	if !ok {
		return false, nil
	}
	if rec.expired(now) {
		s.drop(key)
		return false, []removal[K, V]{{key, rec.value, CauseExpired}}
	}

	rec.expiresAt = next(rec.value)
	s.items.Store(key, rec)
	s.deadlines.Schedule(key, rec.expiresAt)
	s.policy.OnAccess(key)
	return true, nil
}

func (s *shard[K, V]) sweep(now time.Time) []removal[K, V] {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []removal[K, V]
	for {
		key, _, ok := s.deadlines.PopDue(now)
		if !ok {
			break
		}
		if rec, ok := s.drop(key); ok {
			removed = append(removed, removal[K, V]{key, rec.value, CauseExpired})
		}
	}
	return removed
}

func (s *shard[K, V]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Len()
}

// drop removes key from every index. Callers hold mu.
func (s *shard[K, V]) drop(key K) (record[V], bool) {
	rec, ok := s.items.Delete(key)
	if ok {
		s.size.Add(-1)
		s.deadlines.Cancel(key)
		s.policy.OnDelete(key)
	}
	return rec, ok
}
