// internal/core/ports/ledger_store.go
package ports

import (
	"context"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

// LedgerStore defines the persistence port for article stock.
// This interface is implemented by the DynamoDB adapter.
type LedgerStore interface {
	// SaveArticles performs an idempotent bulk upsert, re-driving any subset
	// the store reports as unprocessed until none remain.
	SaveArticles(ctx context.Context, articles []domain.Article) error

	// ApplyDeltas applies signed per-article stock deltas as one atomic
	// operation. Entries with a negative delta are conditioned on the current
	// stock covering the magnitude; any failed condition rejects the whole
	// operation and yields domain.ErrInsufficientStock. Article ids must be
	// unique within a call.
	ApplyDeltas(ctx context.Context, deltas []domain.ArticleAmount) error

	// FindByIDs returns the articles matching the given ids. Duplicate ids are
	// collapsed, partially processed batches are re-driven, and ids with no
	// matching article are simply absent from the result.
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Article, error)
}
