package eviction

import (
	"container/list"
	"hash/maphash"
)

// TinyLFU is a windowed TinyLFU policy. New keys land in a small LRU window;
// when the shard is full the oldest window key competes with the main
// segment's LRU tail and the one with the lower sketch frequency is evicted.
type TinyLFU[K comparable] struct {
	sketch        *CountMinSketch
	window        *list.List
	main          *list.List
	index         map[K]*tlfuEntry[K]
	windowSize    int
	capacity      int
	seed          maphash.Seed
	resetInterval uint64
}

type tlfuEntry[K comparable] struct {
	key    K
	elem   *list.Element
	inMain bool
}

func NewTinyLFU[K comparable](capacity int) *TinyLFU[K] {
	capacity = max(capacity, 1)
	return &TinyLFU[K]{
		sketch:        NewCountMinSketchWithSize(capacity),
		window:        list.New(),
		main:          list.New(),
		index:         make(map[K]*tlfuEntry[K]),
		windowSize:    max(capacity/100, 1),
		capacity:      capacity,
		seed:          maphash.MakeSeed(),
		resetInterval: uint64(capacity) * 10,
	}
}

func (t *TinyLFU[K]) OnInsert(key K) {
	t.touch(key)

	if e, ok := t.index[key]; ok {
		t.segment(e).MoveToFront(e.elem)
		return
	}

	e := &tlfuEntry[K]{key: key}
	e.elem = t.window.PushFront(e)
	t.index[key] = e

	for t.window.Len() > t.windowSize {
		oldest := t.window.Back().Value.(*tlfuEntry[K])
		t.window.Remove(oldest.elem)
		oldest.elem = t.main.PushFront(oldest)
		oldest.inMain = true
	}
}

func (t *TinyLFU[K]) OnAccess(key K) {
	t.touch(key)
	if e, ok := t.index[key]; ok {
		t.segment(e).MoveToFront(e.elem)
	}
}

func (t *TinyLFU[K]) OnDelete(key K) {
	e, ok := t.index[key]
	if !ok {
		return
	}
	t.segment(e).Remove(e.elem)
	delete(t.index, key)
}

// Victim runs the admission contest between the window's oldest key and
// the main segment's LRU tail. A winning candidate is promoted.
func (t *TinyLFU[K]) Victim() (key K, ok bool) {
	candidate := t.window.Back()
	victim := t.main.Back()

	switch {
	case candidate == nil && victim == nil:
		return key, false
	case victim == nil:
		return candidate.Value.(*tlfuEntry[K]).key, true
	case candidate == nil:
		return victim.Value.(*tlfuEntry[K]).key, true
	}

	c := candidate.Value.(*tlfuEntry[K])
	v := victim.Value.(*tlfuEntry[K])
	if t.sketch.Estimate(t.hash(c.key)) > t.sketch.Estimate(t.hash(v.key)) {
		t.window.Remove(c.elem)
		c.elem = t.main.PushFront(c)
		c.inMain = true
		return v.key, true
	}
	return c.key, true
}

func (t *TinyLFU[K]) Len() int {
	return len(t.index)
}

func (t *TinyLFU[K]) Clear() {
	t.sketch = NewCountMinSketchWithSize(t.capacity)
	t.window.Init()
	t.main.Init()
	t.index = make(map[K]*tlfuEntry[K])
}

func (t *TinyLFU[K]) touch(key K) {
	t.sketch.Increment(t.hash(key))
	if t.sketch.Count() > t.resetInterval {
		t.sketch.Reset()
	}
}

func (t *TinyLFU[K]) segment(e *tlfuEntry[K]) *list.List {
	if e.inMain {
		return t.main
	}
	return t.window
}

func (t *TinyLFU[K]) hash(key K) uint64 {
	return maphash.Comparable(t.seed, key)
}

var _ Policy[string] = (*TinyLFU[string])(nil)
