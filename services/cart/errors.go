package cart

import "errors"

var (
	// ErrOutOfStock is returned when the product is flagged unavailable or
	// has zero stock.
	ErrOutOfStock = errors.New("product is out of stock")

	// ErrInsufficientStock is returned when the cumulative requested
	// quantity would exceed the available stock.
	ErrInsufficientStock = errors.New("requested quantity exceeds available stock")
)
