package domain

import (
	"sort"
	"time"
)

type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
}

// Snapshot is one full catalog read, stamped with the time the fetch was
// issued. A snapshot is always replaced wholesale, never merged.
type Snapshot struct {
	Products  []Product
	FetchedAt time.Time
}

func (s Snapshot) ByID(id int64) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// SortByID keeps dashboard ordering stable across polls.
func SortByID(products []Product) {
	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})
}
