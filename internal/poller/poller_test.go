package poller

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wleft/storefront/internal/catalog"
	"github.com/wleft/storefront/internal/domain"
)

type mockSource struct {
	mu        sync.Mutex
	products  []domain.Product
	err       error
	refreshes int
}

func (m *mockSource) Refresh(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshes++
	return m.err
}

func (m *mockSource) Products() []domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out
}

func (m *mockSource) refreshCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshes
}

func (m *mockSource) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	source := &mockSource{products: []domain.Product{{ID: 1}}}
	var mu sync.Mutex
	updates := 0
	sut := New(source, 10*time.Millisecond, func([]domain.Product) {
		mu.Lock()
		updates++
		mu.Unlock()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sut.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return source.refreshCount() >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancellation")
	}

	stopped := source.refreshCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, source.refreshCount(), "no ticks after teardown")

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, updates, 3)
}

func TestTick_FailureSkipsUpdateHook(t *testing.T) {
	source := &mockSource{err: fmt.Errorf("connection refused")}
	updates := 0
	sut := New(source, time.Minute, func([]domain.Product) { updates++ })

	sut.tick(context.Background())
	assert.Equal(t, 0, updates, "failed tick must not look like fresh data")
}

func TestTick_StaleSnapshotDiscarded(t *testing.T) {
	source := &mockSource{err: catalog.ErrStaleSnapshot}
	updates := 0
	sut := New(source, time.Minute, func([]domain.Product) { updates++ })

	sut.tick(context.Background())
	assert.Equal(t, 0, updates)
}

func TestRefreshNow(t *testing.T) {
	source := &mockSource{products: []domain.Product{{ID: 1, Quantity: 25}}}
	var got []domain.Product
	sut := New(source, time.Minute, func(products []domain.Product) { got = products })

	require.NoError(t, sut.RefreshNow(context.Background()))
	assert.Equal(t, 1, source.refreshCount())
	require.Len(t, got, 1)
	assert.Equal(t, 25, got[0].Quantity)

	source.setErr(fmt.Errorf("boom"))
	require.Error(t, sut.RefreshNow(context.Background()))
}

type mockRestocker struct {
	err   error
	calls []int64
}

func (m *mockRestocker) Restock(_ context.Context, productID int64) error {
	m.calls = append(m.calls, productID)
	return m.err
}

func TestRestockAction_TriggersImmediateRefresh(t *testing.T) {
	source := &mockSource{}
	p := New(source, time.Minute, nil)
	backend := &mockRestocker{}
	sut := NewRestockAction(backend, p)

	require.NoError(t, sut.Run(context.Background(), 12))
	assert.Equal(t, []int64{12}, backend.calls)
	assert.Equal(t, 1, source.refreshCount(), "operator must not wait for the next tick")
}

func TestRestockAction_FailureSurfaced(t *testing.T) {
	source := &mockSource{}
	p := New(source, time.Minute, nil)
	backend := &mockRestocker{err: fmt.Errorf("backend down")}
	sut := NewRestockAction(backend, p)

	err := sut.Run(context.Background(), 12)
	require.ErrorContains(t, err, "backend down")
	assert.Equal(t, 0, source.refreshCount(), "no refresh when restock failed")
}

func TestRestockAction_RefreshFailureIsNotFatal(t *testing.T) {
	source := &mockSource{err: fmt.Errorf("fetch failed")}
	p := New(source, time.Minute, nil)
	sut := NewRestockAction(&mockRestocker{}, p)

	require.NoError(t, sut.Run(context.Background(), 5), "restock succeeded; next tick reconciles")
}
