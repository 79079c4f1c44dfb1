package checkout

import "errors"

var (
	ErrInsufficientStock  = errors.New("not enough stock")
	ErrCheckoutInProgress = errors.New("another checkout is already in progress")
	ErrOrderCreation      = errors.New("order creation failed")
	ErrPaymentFailed      = errors.New("payment failed")
	ErrCheckoutAbandoned  = errors.New("checkout abandoned")
	ErrIllegalTransition  = errors.New("illegal transition of checkout state")
)
