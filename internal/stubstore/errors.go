package stubstore

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrOutOfStock        = errors.New("Product is out of stock")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrOrderNotFound     = errors.New("order not found")
)
