package polystash

import (
	"context"
	"fmt"
)

// Loader produces a value and its policy for a key that is not cached.
type Loader[V any] interface {
	Load(ctx context.Context, key string) (V, Expiration, error)
}

type LoaderFunc[V any] func(ctx context.Context, key string) (V, Expiration, error)

func (f LoaderFunc[V]) Load(ctx context.Context, key string) (V, Expiration, error) {
	return f(ctx, key)
}

// GetOrLoad returns the cached value for key or loads, inserts and returns
// it. Concurrent misses on the same key share one Load call. The load keeps
// the values of the starting caller's ctx but not its cancellation, so a
// caller giving up never fails the others; each ctx only bounds its own wait.
func GetOrLoad[V any](ctx context.Context, c *Cache, key string, loader Loader[V]) (V, error) {
	var zero V
	if c.closed.Load() {
		return zero, ErrClosed
	}

	if _, v, ok := Get[V](c, key); ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(key, func() (any, error) {
		v, exp, err := loader.Load(loadCtx, key)
		if err != nil {
			return nil, err
		}
		if err := Insert(c, key, v, exp); err != nil {
			return nil, err
		}
		c.metrics.Loads.Add(1)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		if v, ok := res.Val.(V); ok {
			return v, nil
		}
		// the shared load was started for a different value type
		if _, v, ok := Get[V](c, key); ok {
			return v, nil
		}
		return zero, fmt.Errorf("load %q as %s: %w", key, typeName[V](), ErrDecode)
	}
}
