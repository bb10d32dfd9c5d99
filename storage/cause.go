package storage

// RemovalCause says why an entry left the store.
type RemovalCause uint8

const (
	// CauseExplicit is an Invalidate call on a present key.
	CauseExplicit RemovalCause = iota + 1
	// CauseReplaced is an Insert over a live entry.
	CauseReplaced
	// CauseExpired is a deadline reached, noticed lazily or by a sweep.
	CauseExpired
	// CauseCapacity is a victim chosen by the capacity policy.
	CauseCapacity
)

func (c RemovalCause) String() string {
	switch c {
	case CauseExplicit:
		return "explicit"
	case CauseReplaced:
		return "replaced"
	case CauseExpired:
		return "expired"
	case CauseCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// WasEvicted reports whether the store removed the entry on its own.
func (c RemovalCause) WasEvicted() bool {
	return c == CauseExpired || c == CauseCapacity
}

type removal[K comparable, V any] struct {
	key   K
	value V
	cause RemovalCause
}
