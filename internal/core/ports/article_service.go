// internal/core/ports/article_service.go
package ports

import (
	"context"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

// ArticleService defines the application service port for the stock ledger.
// All stock mutation flows through AdjustStock so the non-negative invariant
// has a single enforcement point.
type ArticleService interface {
	BulkLoad(ctx context.Context, articles []domain.Article) error
	AdjustStock(ctx context.Context, deltas []domain.ArticleAmount) error
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Article, error)
}
