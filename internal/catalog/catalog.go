// Package catalog keeps the last-known product snapshot for a session. The
// server report is the only authoritative value; client-side decrements after
// a confirmed payment live in a separate predicted overlay that the next
// authoritative snapshot wipes out.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/wleft/storefront/internal/domain"
)

// Fetcher retrieves the full product list from the backend.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]domain.Product, error)
}

type Catalog struct {
	fetcher Fetcher
	sfg     singleflight.Group // collapses concurrent refreshes

	mu        sync.RWMutex
	snap      domain.Snapshot
	predicted map[int64]int // optimistic decrements pending the next snapshot
}

func New(fetcher Fetcher) *Catalog {
	return &Catalog{
		fetcher:   fetcher,
		predicted: make(map[int64]int),
	}
}

// Refresh fetches the product list and applies it as the current snapshot.
// Concurrent callers (a poll tick racing a manual refresh) share one fetch.
// A failed fetch leaves the prior snapshot untouched.
func (c *Catalog) Refresh(ctx context.Context) error {
	_, err, _ := c.sfg.Do("products", func() (interface{}, error) {
		issuedAt := time.Now()
		products, err := c.fetcher.FetchProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}
		domain.SortByID(products)
		return nil, c.Replace(domain.Snapshot{Products: products, FetchedAt: issuedAt})
	})
	return err
}

// Replace installs snap wholesale and drops the predicted overlay. A snapshot
// stamped earlier than the one currently applied is discarded with
// ErrStaleSnapshot, so an out-of-order poll response cannot overwrite fresher
// data.
func (c *Catalog) Replace(snap domain.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.snap.FetchedAt.IsZero() && snap.FetchedAt.Before(c.snap.FetchedAt) {
		return ErrStaleSnapshot
	}
	c.snap = snap
	c.predicted = make(map[int64]int)
	return nil
}

// Products returns the snapshot with predicted decrements applied, quantities
// floored at zero.
func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, len(c.snap.Products))
	copy(out, c.snap.Products)
	for i := range out {
		out[i].Quantity = c.effectiveQuantity(out[i])
	}
	return out
}

// ProductByID returns the product as currently displayed, predicted
// decrements included.
func (c *Catalog) ProductByID(id int64) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.snap.ByID(id)
	if !ok {
		return domain.Product{}, false
	}
	p.Quantity = c.effectiveQuantity(p)
	return p, true
}

// ApplyPurchase records an optimistic decrement after a confirmed payment.
// This is a UI convenience only; the authoritative deduction happens
// server-side and arrives with the next snapshot.
func (c *Catalog) ApplyPurchase(productID int64, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.snap.ByID(productID); !ok {
		return domain.ErrProductNotFound
	}
	c.predicted[productID] += qty
	return nil
}

// Search filters the displayed products by a case-insensitive title match.
func (c *Catalog) Search(term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	products := c.Products()
	if term == "" {
		return products
	}
	out := products[:0]
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), term) {
			out = append(out, p)
		}
	}
	return out
}

// LastFetched reports when the current snapshot was issued; zero before the
// first successful refresh.
func (c *Catalog) LastFetched() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.FetchedAt
}

func (c *Catalog) effectiveQuantity(p domain.Product) int {
	q := p.Quantity - c.predicted[p.ID]
	if q < 0 {
		q = 0
	}
	return q
}
