package polystash

// Key is the set of types accepted where a cache key is expected.
type Key interface {
	~string | ~[]byte
}

// KeyString converts k to the store's key type.
func KeyString[K Key](k K) string {
	return string(k)
}
