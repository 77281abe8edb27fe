// internal/core/domain/article.go
package domain

import "fmt"

// Article represents a single stocked inventory component. Stock is the only
// field that changes after creation, and only through signed-delta updates
// applied by the ledger.
type Article struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

// Validate performs domain validation on the article
func (a *Article) Validate() error {
	if a.ID < 0 {
		return fmt.Errorf("article id cannot be negative")
	}
	if a.Name == "" {
		return fmt.Errorf("article name is required")
	}
	if a.Stock < 0 {
		return fmt.Errorf("article stock cannot be negative")
	}
	return nil
}

// ArticleAmount pairs an article id with a quantity. Inside a product's bill
// of materials the amount is non-negative; as a stock delta it may be negative.
type ArticleAmount struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}
