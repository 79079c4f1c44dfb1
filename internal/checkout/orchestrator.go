// Package checkout drives the buy-now purchase handshake: create an order on
// the backend, hand it to the payment widget, and react to the outcome.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/wleft/storefront/internal/api"
	"github.com/wleft/storefront/internal/domain"
	"github.com/wleft/storefront/internal/notify"
	"github.com/wleft/storefront/internal/payment"
	"github.com/wleft/storefront/internal/stock"
)

// OrderCreator opens a payment gateway order session on the backend.
type OrderCreator interface {
	CreateOrder(ctx context.Context, productID int64, quantity int) (domain.Order, error)
}

// Catalog is the session's view of last-known stock, plus the optimistic
// decrement applied after a confirmed payment.
type Catalog interface {
	ProductByID(id int64) (domain.Product, bool)
	ApplyPurchase(productID int64, qty int) error
}

// Collector resolves a payment widget session to a single result.
type Collector interface {
	Collect(ctx context.Context, opts payment.CheckoutOptions) (payment.Result, error)
}

// Merchant is the static display metadata the widget is constructed with.
type Merchant struct {
	Key        string
	Name       string
	Image      string
	ThemeColor string
	Prefill    payment.Prefill
}

type Config struct {
	Merchant Merchant
	// WidgetTimeout bounds how long an open widget may sit without firing
	// either callback before the attempt settles as abandoned. Zero means
	// the caller's context is the only bound.
	WidgetTimeout time.Duration
}

type Orchestrator struct {
	orders   OrderCreator
	catalog  Catalog
	gateway  Collector
	notifier notify.Notifier
	cfg      Config

	sm stateMachine
}

func New(orders OrderCreator, catalog Catalog, gateway Collector, notifier notify.Notifier, cfg Config) *Orchestrator {
	return &Orchestrator{
		orders:   orders,
		catalog:  catalog,
		gateway:  gateway,
		notifier: notifier,
		cfg:      cfg,
		sm:       newStateMachine(),
	}
}

// State reports the current position in the purchase state machine.
func (o *Orchestrator) State() State { return o.sm.current() }

// LastOutcome reports how the previous attempt settled; empty before the
// first settled run.
func (o *Orchestrator) LastOutcome() State { return o.sm.lastOutcome() }

// BuyNow runs one purchase attempt for quantity units of a product. The
// requested quantity is validated against last-known stock before any network
// call; an unsatisfiable request is rejected outright rather than truncated.
// Whatever happens, the orchestrator ends back at idle and can be reused.
func (o *Orchestrator) BuyNow(ctx context.Context, productID int64, quantity int) (domain.PurchaseIntent, error) {
	intent := domain.PurchaseIntent{ProductID: productID, Quantity: quantity}

	product, ok := o.catalog.ProductByID(productID)
	if !ok {
		return intent, domain.ErrProductNotFound
	}
	if !stock.Satisfiable(quantity, product.Quantity) {
		o.notifier.Error(fmt.Sprintf("Only %d items left in stock!", product.Quantity))
		return intent, fmt.Errorf("%w: requested %d of %d", ErrInsufficientStock, quantity, product.Quantity)
	}

	if err := o.sm.begin(); err != nil {
		return intent, err
	}

	order, err := o.orders.CreateOrder(ctx, productID, quantity)
	if err != nil {
		detail := orderErrorDetail(err)
		o.notifier.Error("Payment initiation failed: " + detail)
		o.settle(StateSettledFailure)
		return intent, fmt.Errorf("%w: %s", ErrOrderCreation, detail)
	}
	intent.OrderID = order.ID
	intent.Amount = order.Amount
	intent.Currency = order.Currency

	if err := o.sm.transition(StateWidgetOpen); err != nil {
		return intent, err
	}

	widgetCtx := ctx
	if o.cfg.WidgetTimeout > 0 {
		var cancel context.CancelFunc
		widgetCtx, cancel = context.WithTimeout(ctx, o.cfg.WidgetTimeout)
		defer cancel()
	}

	opts := payment.CheckoutOptions{
		Key:         o.cfg.Merchant.Key,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Name:        o.cfg.Merchant.Name,
		Description: fmt.Sprintf("Purchase: %s (x%d)", product.Title, quantity),
		Image:       o.cfg.Merchant.Image,
		OrderID:     order.ID,
		Prefill:     o.cfg.Merchant.Prefill,
		Theme:       payment.Theme{Color: o.cfg.Merchant.ThemeColor},
	}

	result, err := o.gateway.Collect(widgetCtx, opts)
	if err != nil {
		o.notifier.Error("Payment initiation failed: " + err.Error())
		o.settle(StateSettledFailure)
		return intent, err
	}

	switch result.Status {
	case payment.StatusPaid:
		intent.PaymentRef = result.Reference
		if err := o.catalog.ApplyPurchase(productID, quantity); err != nil {
			log.Printf("optimistic stock update skipped: %v", err)
		}
		o.notifier.Success("Payment Successful! ID: " + result.Reference)
		o.settle(StateSettledSuccess)
		return intent, nil

	case payment.StatusAbandoned:
		o.notifier.Info("Checkout abandoned")
		o.settle(StateSettledFailure)
		return intent, ErrCheckoutAbandoned

	default:
		o.notifier.Error("Payment failed: " + result.Reason)
		o.settle(StateSettledFailure)
		return intent, fmt.Errorf("%w: %s", ErrPaymentFailed, result.Reason)
	}
}

func (o *Orchestrator) settle(outcome State) {
	if err := o.sm.transition(outcome); err != nil {
		log.Printf("checkout settle error: %v", err)
		return
	}
	if err := o.sm.transition(StateIdle); err != nil {
		log.Printf("checkout reset error: %v", err)
	}
}

// orderErrorDetail pulls the server's verbatim diagnostic text out of a
// failed order creation; the body is opaque, never structured data.
func orderErrorDetail(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) && statusErr.Body != "" {
		return statusErr.Body
	}
	return err.Error()
}
