// Package stock holds the single clamping policy bounding requested
// quantities to available stock. Cart quantity controls and the buy-now path
// both go through it so they cannot drift apart.
package stock

// Clamp bounds requested to [1, available]. It returns ErrOutOfStock when
// there is no stock at all; otherwise the result is always within bounds.
func Clamp(requested, available int) (int, error) {
	if available <= 0 {
		return 0, ErrOutOfStock
	}
	if requested < 1 {
		return 1, nil
	}
	if requested > available {
		return available, nil
	}
	return requested, nil
}

// Satisfiable reports whether the full requested quantity can be served from
// available stock. Buy-now rejects rather than truncates, so it needs the
// exact answer, not the clamped one.
func Satisfiable(requested, available int) bool {
	effective, err := Clamp(requested, available)
	return err == nil && effective == requested
}
