package catalog

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wleft/storefront/internal/domain"
)

type mockFetcher struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	calls    int
	block    chan struct{} // when set, FetchProducts waits until closed
}

func (m *mockFetcher) FetchProducts(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	m.calls++
	block := m.block
	products, err := m.products, m.err
	m.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, len(products))
	copy(out, products)
	return out, nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestRefresh_InstallsSortedSnapshot(t *testing.T) {
	fetcher := &mockFetcher{products: []domain.Product{
		{ID: 3, Title: "Monitor", Quantity: 2},
		{ID: 1, Title: "Keyboard", Quantity: 5},
	}}
	sut := New(fetcher)

	require.NoError(t, sut.Refresh(context.Background()))

	got := sut.Products()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
	assert.False(t, sut.LastFetched().IsZero())
}

func TestRefresh_FailureLeavesSnapshot(t *testing.T) {
	fetcher := &mockFetcher{products: []domain.Product{{ID: 1, Quantity: 5}}}
	sut := New(fetcher)
	require.NoError(t, sut.Refresh(context.Background()))

	fetcher.mu.Lock()
	fetcher.err = fmt.Errorf("connection refused")
	fetcher.mu.Unlock()

	err := sut.Refresh(context.Background())
	require.ErrorContains(t, err, "connection refused")

	got := sut.Products()
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Quantity)
}

// An out-of-order response must not overwrite fresher data: a snapshot
// stamped before the applied one is discarded.
func TestReplace_DiscardsStaleSnapshot(t *testing.T) {
	sut := New(nil)
	now := time.Now()

	require.NoError(t, sut.Replace(domain.Snapshot{
		Products:  []domain.Product{{ID: 1, Quantity: 7}},
		FetchedAt: now,
	}))

	err := sut.Replace(domain.Snapshot{
		Products:  []domain.Product{{ID: 1, Quantity: 3}},
		FetchedAt: now.Add(-2 * time.Second),
	})
	require.ErrorIs(t, err, ErrStaleSnapshot)

	got := sut.Products()
	assert.Equal(t, 7, got[0].Quantity)
}

func TestReplace_Wholesale(t *testing.T) {
	sut := New(nil)
	now := time.Now()

	require.NoError(t, sut.Replace(domain.Snapshot{
		Products:  []domain.Product{{ID: 1, Quantity: 7}, {ID: 2, Quantity: 4}},
		FetchedAt: now,
	}))
	require.NoError(t, sut.Replace(domain.Snapshot{
		Products:  []domain.Product{{ID: 2, Quantity: 24}},
		FetchedAt: now.Add(time.Second),
	}))

	got := sut.Products()
	require.Len(t, got, 1, "snapshots replace, never merge")
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, 24, got[0].Quantity)
}

func TestApplyPurchase_DecrementsDisplayedQuantity(t *testing.T) {
	sut := New(nil)
	require.NoError(t, sut.Replace(domain.Snapshot{
		Products:  []domain.Product{{ID: 1, Quantity: 10}},
		FetchedAt: time.Now(),
	}))

	require.NoError(t, sut.ApplyPurchase(1, 2))

	p, ok := sut.ProductByID(1)
	require.True(t, ok)
	assert.Equal(t, 8, p.Quantity)
}

func TestApplyPurchase_FlooredAtZero(t *testing.T) {
	sut := New(nil)
	require.NoError(t, sut.Replace(domain.Snapshot{
		Products:  []domain.Product{{ID: 1, Quantity: 3}},
		FetchedAt: time.Now(),
	}))

	require.NoError(t, sut.ApplyPurchase(1, 3))
	require.NoError(t, sut.ApplyPurchase(1, 2))

	p, _ := sut.ProductByID(1)
	assert.Equal(t, 0, p.Quantity, "displayed quantity never goes negative")
}

func TestApplyPurchase_UnknownProduct(t *testing.T) {
	sut := New(nil)
	require.NoError(t, sut.Replace(domain.Snapshot{FetchedAt: time.Now()}))

	err := sut.ApplyPurchase(99, 1)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

// The predicted overlay is a best-effort guess; the next authoritative
// snapshot supersedes it entirely.
func TestReplace_ClearsPredictedOverlay(t *testing.T) {
	sut := New(nil)
	now := time.Now()
	require.NoError(t, sut.Replace(domain.Snapshot{
		Products:  []domain.Product{{ID: 1, Quantity: 10}},
		FetchedAt: now,
	}))
	require.NoError(t, sut.ApplyPurchase(1, 4))

	require.NoError(t, sut.Replace(domain.Snapshot{
		Products:  []domain.Product{{ID: 1, Quantity: 6}},
		FetchedAt: now.Add(time.Second),
	}))

	p, _ := sut.ProductByID(1)
	assert.Equal(t, 6, p.Quantity, "authoritative value wins, no double deduction")
}

func TestSearch(t *testing.T) {
	sut := New(nil)
	require.NoError(t, sut.Replace(domain.Snapshot{
		Products: []domain.Product{
			{ID: 1, Title: "Wireless Headphones"},
			{ID: 2, Title: "USB Cable"},
			{ID: 3, Title: "wireless mouse"},
		},
		FetchedAt: time.Now(),
	}))

	got := sut.Search("WIRELESS")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	assert.Len(t, sut.Search(""), 3)
	assert.Empty(t, sut.Search("projector"))
}

func TestRefresh_CollapsesConcurrentCalls(t *testing.T) {
	block := make(chan struct{})
	fetcher := &mockFetcher{
		products: []domain.Product{{ID: 1, Quantity: 1}},
		block:    block,
	}
	sut := New(fetcher)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sut.Refresh(context.Background())
		}()
	}

	require.Eventually(t, func() bool {
		return fetcher.callCount() == 1
	}, time.Second, 5*time.Millisecond)
	// give every goroutine time to join the in-flight call before it resolves
	time.Sleep(100 * time.Millisecond)
	close(block)
	wg.Wait()

	assert.Equal(t, 1, fetcher.callCount(), "concurrent refreshes share one fetch")
}
