// Package stubstore is a local stand-in for the storefront backend. It
// serves the exact REST shapes the session consumes, so development and
// integration tests can run without the real server, database or gateway.
package stubstore

import (
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/wleft/storefront/internal/domain"
)

// RestockIncrement is the fixed amount one restock call adds.
const RestockIncrement = 20

type orderRecord struct {
	ProductID int64
	Quantity  int
	Amount    int64
	Paid      bool
}

// MemoryStore holds products and gateway order sessions behind one mutex.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	orders   map[string]*orderRecord
	nextID   int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]*domain.Product),
		orders:   make(map[string]*orderRecord),
	}
}

// Seed loads a small default catalog.
func (s *MemoryStore) Seed() {
	seed := []domain.Product{
		{Title: "Wireless Headphones", Price: 2499, Image: "https://img.example.com/headphones.png", Quantity: 10, Description: "Over-ear, noise cancelling"},
		{Title: "Mechanical Keyboard", Price: 4999, Image: "https://img.example.com/keyboard.png", Quantity: 6, Description: "Hot-swappable switches"},
		{Title: "USB-C Hub", Price: 1299, Image: "https://img.example.com/hub.png", Quantity: 3, Description: "7-in-1"},
		{Title: "Smart Watch", Price: 8999, Image: "https://img.example.com/watch.png", Quantity: 0, Description: "AMOLED display"},
	}
	for _, p := range seed {
		_ = s.Add(p)
	}
}

func (s *MemoryStore) List() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	domain.SortByID(out)
	return out
}

func (s *MemoryStore) Get(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, false
	}
	return *p, true
}

func (s *MemoryStore) Add(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	p.ID = s.nextID
	s.products[p.ID] = &p
	return p
}

func (s *MemoryStore) Restock(id int64) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, ErrProductNotFound
	}
	p.Quantity += RestockIncrement
	return *p, nil
}

// CreateOrder opens a gateway order session for quantity units. Amount is
// price x quantity in the minor currency unit.
func (s *MemoryStore) CreateOrder(productID int64, quantity int) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok {
		return domain.Order{}, ErrProductNotFound
	}
	if p.Quantity <= 0 {
		return domain.Order{}, ErrOutOfStock
	}
	if quantity < 1 || quantity > p.Quantity {
		return domain.Order{}, fmt.Errorf("%w: %d available", ErrInsufficientStock, p.Quantity)
	}

	order := domain.Order{
		ID:       "order_" + uuid.NewString(),
		Amount:   int64(p.Price*100) * int64(quantity),
		Currency: "INR",
	}
	s.orders[order.ID] = &orderRecord{
		ProductID: productID,
		Quantity:  quantity,
		Amount:    order.Amount,
	}
	return order, nil
}

// MarkPaid performs the authoritative stock deduction the real backend does
// in its payment webhook. Stock never goes negative; a sale that no longer
// fits is dropped with a log line, the way the original service behaves.
func (s *MemoryStore) MarkPaid(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	if rec.Paid {
		return nil // webhook redelivery is a no-op
	}
	rec.Paid = true

	p, ok := s.products[rec.ProductID]
	if !ok {
		return nil
	}
	if p.Quantity < rec.Quantity {
		log.Printf("attempted to sell out-of-stock product id=%d", p.ID)
		return nil
	}
	p.Quantity -= rec.Quantity
	return nil
}
