package storage

// Memory is the unsynchronized map backing a single shard.
type Memory[K comparable, V any] struct {
	items map[K]V
}

func NewMemory[K comparable, V any]() *Memory[K, V] {
	return &Memory[K, V]{items: make(map[K]V)}
}

func (m *Memory[K, V]) Load(key K) (V, bool) {
	value, ok := m.items[key]
	return value, ok
}

func (m *Memory[K, V]) Store(key K, value V) {
	m.items[key] = value
}

// Delete removes key and returns the value it held.
func (m *Memory[K, V]) Delete(key K) (V, bool) {
	value, existed := m.items[key]
	if existed {
		delete(m.items, key)
	}
	return value, existed
}

func (m *Memory[K, V]) Len() int {
	return len(m.items)
}
