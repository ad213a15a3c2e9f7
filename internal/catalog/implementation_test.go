package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSource struct {
	mu       sync.Mutex
	products []Product
	err      error
	calls    atomic.Int32
	release  chan struct{} // when set, fetches block until closed
}

func (f *fakeSource) FetchProducts(ctx context.Context) ([]Product, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

func (f *fakeSource) set(products []Product, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products, f.err = products, err
}

func TestService_LoadPopulatesSnapshot(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	svc := NewService(src, nil, nil)

	assert.Empty(t, svc.Products())
	assert.Empty(t, svc.Categories())

	products, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 5)
	assert.Equal(t, ids(sampleProducts()), ids(svc.Products()))

	p, ok := svc.Product(3)
	require.True(t, ok)
	assert.Equal(t, "SSD 1TB", p.Title)

	_, ok = svc.Product(99)
	assert.False(t, ok)

	assert.Equal(t, []string{"men's clothing", "jewelery", "electronics", "women's clothing"}, svc.Categories())
}

func TestService_FailedLoadKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	svc := NewService(src, nil, nil)

	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	boom := errors.New("connection refused")
	src.set(nil, boom)

	_, err = svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, svc.Products(), 5)
}

func TestService_ReturnedSliceIsACopy(t *testing.T) {
	svc := NewService(&fakeSource{products: sampleProducts()}, nil, nil)

	products, err := svc.Load(context.Background())
	require.NoError(t, err)
	products[0].Title = "changed"

	assert.Equal(t, "Mens Casual Shirt", svc.Products()[0].Title)
}

func TestService_ConcurrentLoadsShareOneFetch(t *testing.T) {
	src := &fakeSource{products: sampleProducts(), release: make(chan struct{})}
	svc := NewService(src, nil, nil)

	const callers = 8
	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
	)
	results := make([][]Product, callers)
	errs := make([]error, callers)
	wg.Add(callers)
	started.Add(callers)
	for i := range callers {
		go func() {
			defer wg.Done()
			started.Done()
			results[i], errs[i] = svc.Load(context.Background())
		}()
	}
	started.Wait()

	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)
	// give the remaining callers time to join the in-flight fetch
	time.Sleep(20 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for i := range callers {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 5)
	}
}

func TestService_CommitRejectsStaleGeneration(t *testing.T) {
	s := NewService(&fakeSource{}, nil, nil).(*service)

	newer := sampleProducts()[:2]
	older := sampleProducts()

	assert.True(t, s.commit(2, newer))
	assert.False(t, s.commit(1, older), "older generation must not overwrite")
	assert.Equal(t, []int{1, 2}, ids(s.Products()))

	assert.True(t, s.commit(3, older))
	assert.Len(t, s.Products(), 5)
}

func TestService_ReloadRateLimited(t *testing.T) {
	src := &fakeSource{products: sampleProducts()}
	limiter := rate.NewLimiter(rate.Every(time.Hour), 2)
	svc := NewService(src, limiter, nil)

	for range 2 {
		_, err := svc.Reload(context.Background())
		require.NoError(t, err)
	}

	_, err := svc.Reload(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(2), src.calls.Load())

	// plain loads are never limited
	_, err = svc.Load(context.Background())
	assert.NoError(t, err)
}

func TestService_CanceledCallerDoesNotFailJoinedLoad(t *testing.T) {
	src := &fakeSource{products: sampleProducts(), release: make(chan struct{})}
	svc := NewService(src, nil, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Load(ctxA)
		errA <- err
	}()
	require.Eventually(t, func() bool { return src.calls.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		products []Product
		err      error
	}
	resB := make(chan result, 1)
	go func() {
		products, err := svc.Load(context.Background())
		resB <- result{products, err}
	}()
	// let B join the in-flight fetch before A goes away
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(src.release)
	b := <-resB
	require.NoError(t, b.err)
	assert.Len(t, b.products, 5)
	assert.Equal(t, int32(1), src.calls.Load())
	assert.Len(t, svc.Products(), 5)
}
