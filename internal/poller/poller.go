// Package poller keeps the operator dashboard near-real-time. Stock also
// changes through a backend webhook this client never sees, so the only way
// to stay current is to re-fetch the whole catalog on a fixed interval.
package poller

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/wleft/storefront/internal/catalog"
	"github.com/wleft/storefront/internal/domain"
)

// DefaultInterval matches the dashboard's refresh cadence.
const DefaultInterval = 5 * time.Second

// Source refreshes and exposes the shared catalog snapshot.
type Source interface {
	Refresh(ctx context.Context) error
	Products() []domain.Product
}

type Poller struct {
	source   Source
	interval time.Duration
	onUpdate func([]domain.Product)
}

// New builds a poller over the shared catalog. onUpdate, if non-nil, runs
// after every successfully applied snapshot.
func New(source Source, interval time.Duration, onUpdate func([]domain.Product)) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{source: source, interval: interval, onUpdate: onUpdate}
}

// Run fetches once immediately, then on every interval tick until the
// context is cancelled. Cancel on view teardown so a dead dashboard stops
// updating shared state.
func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// RefreshNow forces a fetch outside the tick schedule, used after operator
// actions so the effect is visible without waiting for the next tick.
func (p *Poller) RefreshNow(ctx context.Context) error {
	if err := p.source.Refresh(ctx); err != nil {
		return err
	}
	p.notifyUpdate()
	return nil
}

func (p *Poller) tick(ctx context.Context) {
	if err := p.source.Refresh(ctx); err != nil {
		if errors.Is(err, catalog.ErrStaleSnapshot) {
			log.Printf("poll tick discarded out-of-order snapshot")
			return
		}
		log.Printf("poll tick failed: %v", err)
		return
	}
	p.notifyUpdate()
}

func (p *Poller) notifyUpdate() {
	if p.onUpdate != nil {
		p.onUpdate(p.source.Products())
	}
}
