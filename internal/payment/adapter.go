// Package payment wraps the externally supplied payment widget behind a
// single asynchronous result. The widget contract is callback-shaped: success
// and failure are mutually exclusive, each fires at most once, and neither is
// guaranteed to fire at all.
package payment

import "context"

type Status string

const (
	StatusPaid      Status = "PAID"
	StatusFailed    Status = "FAILED"
	StatusAbandoned Status = "ABANDONED"
)

// Result is the one outcome of a widget session: exactly one of paid (with a
// payment reference), failed (with a reason), or abandoned.
type Result struct {
	Status    Status
	Reference string
	Reason    string
}

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

type Theme struct {
	Color string `json:"color"`
}

// CheckoutOptions mirrors what the gateway widget is constructed with.
type CheckoutOptions struct {
	Key         string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
	Theme       Theme   `json:"theme"`
}

// Widget is the environment-injected widget constructor. Open must register
// both callbacks before presenting the widget and must not block on either.
type Widget interface {
	Open(opts CheckoutOptions, onSuccess func(reference string), onFailure func(reason string)) error
}

type Adapter struct {
	widget Widget
}

func NewAdapter(widget Widget) *Adapter {
	return &Adapter{widget: widget}
}

// Collect opens a widget session and waits for its outcome. The first
// callback to fire wins; a second firing is ignored. When the context expires
// with neither callback fired the session resolves to an explicit Abandoned
// result instead of hanging.
func (a *Adapter) Collect(ctx context.Context, opts CheckoutOptions) (Result, error) {
	outcome := make(chan Result, 1)
	deliver := func(r Result) {
		select {
		case outcome <- r:
		default:
		}
	}

	err := a.widget.Open(opts,
		func(reference string) {
			deliver(Result{Status: StatusPaid, Reference: reference})
		},
		func(reason string) {
			deliver(Result{Status: StatusFailed, Reason: reason})
		},
	)
	if err != nil {
		return Result{}, err
	}

	select {
	case r := <-outcome:
		return r, nil
	case <-ctx.Done():
		return Result{Status: StatusAbandoned}, nil
	}
}
