package stock

import "errors"

var ErrOutOfStock = errors.New("product is out of stock")
