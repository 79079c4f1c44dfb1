// Package inventory holds the operator dashboard aggregations over the
// catalog snapshot.
package inventory

import "github.com/wleft/storefront/internal/domain"

// LowStockThreshold is the quantity below which a product counts as low.
const LowStockThreshold = 5

type Stats struct {
	TotalUnits    int
	TotalValue    float64
	LowStockCount int
}

// Compute aggregates the snapshot into dashboard figures.
func Compute(products []domain.Product) Stats {
	var s Stats
	for _, p := range products {
		s.TotalUnits += p.Quantity
		s.TotalValue += p.Price * float64(p.Quantity)
		if p.Quantity < LowStockThreshold {
			s.LowStockCount++
		}
	}
	return s
}

// LowStock returns the products currently below the threshold.
func LowStock(products []domain.Product) []domain.Product {
	var out []domain.Product
	for _, p := range products {
		if p.Quantity < LowStockThreshold {
			out = append(out, p)
		}
	}
	return out
}
