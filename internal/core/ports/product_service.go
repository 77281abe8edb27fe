// internal/core/ports/product_service.go
package ports

import (
	"context"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

// ProductService defines the application service port for the catalog.
type ProductService interface {
	BulkLoad(ctx context.Context, products []domain.Product) error
	FindByNames(ctx context.Context, names []string) ([]domain.Product, error)

	// ListAvailable returns the products whose full bill of materials is
	// covered by current stock. The result is a point-in-time snapshot and may
	// be stale by the time the caller acts on it.
	ListAvailable(ctx context.Context) ([]domain.Product, error)

	// Purchase atomically decrements stock for the aggregated bill of
	// materials of the requested products. It returns false when the ledger
	// reports insufficient stock; that outcome is a normal result, not an
	// error.
	Purchase(ctx context.Context, requests []domain.ProductAmount) (bool, error)
}
