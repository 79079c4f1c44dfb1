package poller

import (
	"context"
	"fmt"
	"log"
)

// Restocker asks the backend to add its fixed restock increment.
type Restocker interface {
	Restock(ctx context.Context, productID int64) error
}

// RestockAction is the one-shot operator command: restock on the backend,
// then refresh immediately so the operator sees the new stock right away.
type RestockAction struct {
	backend Restocker
	poller  *Poller
}

func NewRestockAction(backend Restocker, poller *Poller) *RestockAction {
	return &RestockAction{backend: backend, poller: poller}
}

// Run surfaces a failed restock to the caller; nothing was mutated locally,
// so there is nothing to roll back. A failed follow-up refresh is only
// logged, the next poll tick picks the change up anyway.
func (a *RestockAction) Run(ctx context.Context, productID int64) error {
	if err := a.backend.Restock(ctx, productID); err != nil {
		return fmt.Errorf("restock product %d: %w", productID, err)
	}
	if err := a.poller.RefreshNow(ctx); err != nil {
		log.Printf("refresh after restock failed: %v", err)
	}
	return nil
}
