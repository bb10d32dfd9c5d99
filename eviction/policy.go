package eviction

// Policy chooses which key leaves a full shard. Implementations track
// membership only; expiry is handled separately by Deadlines.
type Policy[K comparable] interface {
	OnInsert(key K)
	OnAccess(key K)
	OnDelete(key K)
	// Victim returns the key to drop next without removing it from the policy.
	Victim() (key K, ok bool)
	Len() int
	Clear()
}

// Kind names a capacity policy.
type Kind string

const (
	KindLRU     Kind = "lru"
	KindTinyLFU Kind = "tinylfu"
)

// New returns the policy for kind sized for capacity entries.
// Unknown kinds fall back to LRU.
func New[K comparable](kind Kind, capacity int) Policy[K] {
	if kind == KindTinyLFU && capacity > 0 {
		return NewTinyLFU[K](capacity)
	}
	return NewLRU[K]()
}
