// internal/core/ports/catalog_store.go
package ports

import (
	"context"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

// CatalogStore defines the persistence port for product definitions.
// This interface is implemented by the DynamoDB adapter.
type CatalogStore interface {
	// SaveProducts performs an idempotent bulk upsert with the same
	// re-drive-until-drained contract as LedgerStore.SaveArticles.
	SaveProducts(ctx context.Context, products []domain.Product) error

	// FindByNames returns the products matching the given names. Missing
	// names are absent from the result, not an error.
	FindByNames(ctx context.Context, names []string) ([]domain.Product, error)

	// FindAll enumerates the whole catalog, transparently following the
	// store's pagination cursor. Every product appears exactly once, in
	// arrival order; no further ordering is promised.
	FindAll(ctx context.Context) ([]domain.Product, error)
}
