package utils

import "math"

// Round keeps currency amounts at two decimal places. Course prices are whole
// won in practice but product bundles can carry fractional USD prices.
func Round(value float64) float64 {
	return math.Round(value*100) / 100
}

// LineSubtotal is the contribution of one cart line to the cart total.
func LineSubtotal(price float64, quantity int) float64 {
	return Round(price * float64(quantity))
}
