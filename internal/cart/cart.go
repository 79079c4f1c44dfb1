// Package cart holds the buyer's pending selections for one session. The
// store lives and dies with the session; nothing here touches the network.
package cart

import (
	"sync"

	"github.com/wleft/storefront/internal/domain"
	"github.com/wleft/storefront/internal/stock"
)

// Item is a value copy of the product taken at add time plus the requested
// quantity. It does not track later stock changes; checkout re-validates
// against the live catalog.
type Item struct {
	Product  domain.Product
	Quantity int
}

// ProductLookup resolves a product against the last-known catalog snapshot.
type ProductLookup interface {
	ProductByID(id int64) (domain.Product, bool)
}

type Store struct {
	mu      sync.Mutex
	items   []Item
	index   map[int64]int // product id -> position in items
	desired map[int64]int // pre-cart quantity per product, defaults to 1
	lookup  ProductLookup
}

func NewStore(lookup ProductLookup) *Store {
	return &Store{
		index:   make(map[int64]int),
		desired: make(map[int64]int),
		lookup:  lookup,
	}
}

// AddItem merges qty into the existing entry for the product, or inserts a
// new one in insertion order. The resulting quantity is clamped against the
// product's stock as observed at call time; truncated reports whether the
// caller asked for more than was available.
func (s *Store) AddItem(p domain.Product, qty int) (effective int, truncated bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := 0
	if pos, ok := s.index[p.ID]; ok {
		existing = s.items[pos].Quantity
	}

	total, err := stock.Clamp(existing+qty, p.Quantity)
	if err != nil {
		return 0, false, err
	}
	truncated = total < existing+qty

	if pos, ok := s.index[p.ID]; ok {
		s.items[pos].Quantity = total
	} else {
		s.index[p.ID] = len(s.items)
		s.items = append(s.items, Item{Product: p, Quantity: total})
	}
	return total, truncated, nil
}

// RemoveItem deletes the entry for the product. Removing an absent product
// is a no-op.
func (s *Store) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[productID]
	if !ok {
		return
	}
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, productID)
	for id, i := range s.index {
		if i > pos {
			s.index[id] = i - 1
		}
	}
}

// ChangeQuantity adjusts the pre-cart desired quantity for a product by
// delta, clamped to [1, stock]. Going below one or above stock clamps rather
// than rejects.
func (s *Store) ChangeQuantity(productID int64, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.lookup.ProductByID(productID)
	if !ok {
		return 0, domain.ErrProductNotFound
	}

	current, ok := s.desired[productID]
	if !ok {
		current = 1
	}
	next, err := stock.Clamp(current+delta, product.Quantity)
	if err != nil {
		return 0, err
	}
	s.desired[productID] = next
	return next, nil
}

// Desired returns the pre-cart quantity for a product, defaulting to 1.
func (s *Store) Desired(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if q, ok := s.desired[productID]; ok {
		return q
	}
	return 1
}

// Items returns the cart entries in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Totals recomputes the item count and monetary total from scratch on every
// call. Nothing is cached incrementally, so the totals cannot drift from the
// entries.
func (s *Store) Totals() (count int, total float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		count += item.Quantity
		total += item.Product.Price * float64(item.Quantity)
	}
	return count, total
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Clear empties the cart. Desired quantities survive; they belong to the
// product controls, not the cart contents.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.index = make(map[int64]int)
}
