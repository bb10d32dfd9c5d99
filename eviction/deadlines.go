package eviction

import (
	"container/heap"
	"time"
)

// Deadlines indexes keys by the instant they become due, earliest first.
// It is not safe for concurrent use; the owning shard serializes access.
type Deadlines[K comparable] struct {
	heap  deadlineHeap[K]
	index map[K]*deadline[K]
}

func NewDeadlines[K comparable]() *Deadlines[K] {
	return &Deadlines[K]{index: make(map[K]*deadline[K])}
}

// Schedule sets or moves the deadline of key. A zero time unschedules it.
func (d *Deadlines[K]) Schedule(key K, at time.Time) {
	if at.IsZero() {
		d.Cancel(key)
		return
	}

	if existing, ok := d.index[key]; ok {
		existing.at = at
		heap.Fix(&d.heap, existing.pos)
		return
	}

	item := &deadline[K]{key: key, at: at}
	heap.Push(&d.heap, item)
	d.index[key] = item
}

func (d *Deadlines[K]) Cancel(key K) {
	if existing, ok := d.index[key]; ok {
		heap.Remove(&d.heap, existing.pos)
		delete(d.index, key)
	}
}

// Deadline reports the scheduled instant for key, if any.
func (d *Deadlines[K]) Deadline(key K) (time.Time, bool) {
	if existing, ok := d.index[key]; ok {
		return existing.at, true
	}
	return time.Time{}, false
}

// PopDue removes and returns the earliest key whose deadline is not after now.
func (d *Deadlines[K]) PopDue(now time.Time) (key K, at time.Time, ok bool) {
	if d.heap.Len() == 0 {
		return key, at, false
	}

	top := d.heap[0]
	if now.Before(top.at) {
		return key, at, false
	}

	heap.Pop(&d.heap)
	delete(d.index, top.key)

	return top.key, top.at, true
}

func (d *Deadlines[K]) Len() int {
	return d.heap.Len()
}

func (d *Deadlines[K]) Clear() {
	d.heap = nil
	d.index = make(map[K]*deadline[K])
}

type deadline[K comparable] struct {
	key K
	at  time.Time
	pos int
}

type deadlineHeap[K comparable] []*deadline[K]

func (h deadlineHeap[K]) Len() int           { return len(h) }
func (h deadlineHeap[K]) Less(i, j int) bool { return h[i].at.Before(h[j].at) }
func (h deadlineHeap[K]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i
	h[j].pos = j
}

func (h *deadlineHeap[K]) Push(x any) {
	item := x.(*deadline[K])
	item.pos = len(*h)
	*h = append(*h, item)
}

func (h *deadlineHeap[K]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.pos = -1
	*h = old[:n-1]
	return item
}
