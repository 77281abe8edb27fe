// internal/core/domain/product.go
package domain

import "fmt"

// Product represents a sellable item assembled from a fixed bill of articles.
// Availability is derived from current article stock, never stored.
type Product struct {
	Name     string          `json:"name"`
	Price    int64           `json:"price"`
	Articles []ArticleAmount `json:"articles"`
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("product price cannot be negative")
	}
	for _, aa := range p.Articles {
		if aa.ID < 0 {
			return fmt.Errorf("product %s references negative article id", p.Name)
		}
		if aa.Amount < 0 {
			return fmt.Errorf("product %s requires a negative amount of article %d", p.Name, aa.ID)
		}
	}
	return nil
}

// ProductAmount is a single purchase-request line item.
type ProductAmount struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// Validate performs domain validation on the request line
func (p *ProductAmount) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}
	if p.Amount < 0 {
		return fmt.Errorf("requested amount cannot be negative")
	}
	return nil
}
