package polystash

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoad_LoadsOnceAndCaches(t *testing.T) {
	c, _ := newTestCache(t, Config{})

	var calls atomic.Int32
	release := make(chan struct{})
	loader := LoaderFunc[string](func(ctx context.Context, key string) (string, Expiration, error) {
		calls.Add(1)
		<-release
		return "loaded-" + key, Minutes(5), nil
	})

	var wg sync.WaitGroup
	results := make([]string, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := GetOrLoad[string](context.Background(), c, "user:1", loader)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, "loaded-user:1", v)
	}

	exp, ok := c.Expiration("user:1")
	require.True(t, ok)
	assert.Equal(t, Minutes(5), exp)
	assert.Equal(t, uint64(1), c.Metrics().Loads)

	v, err := GetOrLoad[string](context.Background(), c, "user:1", loader)
	require.NoError(t, err)
	assert.Equal(t, "loaded-user:1", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetOrLoad_LoaderError(t *testing.T) {
	c, _ := newTestCache(t, Config{})
	errBackend := errors.New("backend down")

	_, err := GetOrLoad[int](context.Background(), c, "k", LoaderFunc[int](func(context.Context, string) (int, Expiration, error) {
		return 0, Never, errBackend
	}))

	assert.ErrorIs(t, err, errBackend)
	assert.False(t, c.ContainsKey("k"))
}

func TestGetOrLoad_ContextCancelled(t *testing.T) {
	c, _ := newTestCache(t, Config{})
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := GetOrLoad[int](ctx, c, "slow", LoaderFunc[int](func(context.Context, string) (int, Expiration, error) {
		<-release
		return 1, Never, nil
	}))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetOrLoad_EncodeFailure(t *testing.T) {
	c, _ := newTestCache(t, Config{})

	_, err := GetOrLoad[chan int](context.Background(), c, "k", LoaderFunc[chan int](func(context.Context, string) (chan int, Expiration, error) {
		return make(chan int), Never, nil
	}))

	assert.ErrorIs(t, err, ErrEncode)
}

func TestGetOrLoad_Closed(t *testing.T) {
	c, _ := newTestCache(t, Config{})
	require.NoError(t, c.Close())

	_, err := GetOrLoad[int](context.Background(), c, "k", LoaderFunc[int](func(context.Context, string) (int, Expiration, error) {
		return 1, Never, nil
	}))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestGetOrLoad_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c, _ := newTestCache(t, Config{})

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	loader := LoaderFunc[string](func(ctx context.Context, key string) (string, Expiration, error) {
		calls.Add(1)
		close(started)
		select {
		case <-release:
			return "fresh-" + key, Minutes(1), nil
		case <-ctx.Done():
			return "", Never, ctx.Err()
		}
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := GetOrLoad[string](ctxA, c, "k", loader)
		errA <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := GetOrLoad[string](context.Background(), c, "k", loader)
		resB <- result{v, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	time.Sleep(20 * time.Millisecond)
	close(release)

	res := <-resB
	require.NoError(t, res.err)
	assert.Equal(t, "fresh-k", res.v)
	assert.Equal(t, int32(1), calls.Load())

	_, v, ok := Get[string](c, "k")
	require.True(t, ok)
	assert.Equal(t, "fresh-k", v)
}
