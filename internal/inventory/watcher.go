package inventory

import (
	"fmt"
	"sync"

	"github.com/wleft/storefront/internal/domain"
	"github.com/wleft/storefront/internal/notify"
)

// Watcher raises a notice when a product drops below the low-stock threshold.
// It alerts on the transition only, not on every poll tick, and re-arms once
// the product is restocked above the threshold.
type Watcher struct {
	notifier notify.Notifier

	mu      sync.Mutex
	alerted map[int64]bool
}

func NewWatcher(notifier notify.Notifier) *Watcher {
	return &Watcher{
		notifier: notifier,
		alerted:  make(map[int64]bool),
	}
}

// Inspect is wired as the poller's snapshot hook.
func (w *Watcher) Inspect(products []domain.Product) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, p := range products {
		if p.Quantity >= LowStockThreshold {
			delete(w.alerted, p.ID)
			continue
		}
		if w.alerted[p.ID] {
			continue
		}
		w.alerted[p.ID] = true
		w.notifier.Error(fmt.Sprintf("Low stock: %s has %d left, restock from the dashboard", p.Title, p.Quantity))
	}
}
