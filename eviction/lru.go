package eviction

import (
	"math"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// LRU evicts the least recently used key. Recency bookkeeping is delegated
// to simplelru; its own size bound is never reached because the shard asks
// for a Victim before the map grows past capacity.
type LRU[K comparable] struct {
	order *simplelru.LRU[K, struct{}]
}

func NewLRU[K comparable]() *LRU[K] {
	order, err := simplelru.NewLRU[K, struct{}](math.MaxInt, nil)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &LRU[K]{order: order}
}

func (l *LRU[K]) OnInsert(key K) { l.order.Add(key, struct{}{}) }

func (l *LRU[K]) OnAccess(key K) { l.order.Get(key) }

func (l *LRU[K]) OnDelete(key K) { l.order.Remove(key) }

func (l *LRU[K]) Victim() (key K, ok bool) {
	key, _, ok = l.order.GetOldest()
	return key, ok
}

func (l *LRU[K]) Len() int { return l.order.Len() }

func (l *LRU[K]) Clear() { l.order.Purge() }

var _ Policy[string] = (*LRU[string])(nil)
