package domain

// Order describes a payment gateway order session created by the backend.
// Amount is in the gateway's minor currency unit.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PurchaseIntent is one attempt to buy a quantity of a product. It lives for
// the duration of a single checkout handshake and is never persisted.
type PurchaseIntent struct {
	ProductID  int64
	Quantity   int
	OrderID    string
	Amount     int64
	Currency   string
	PaymentRef string
}
