// internal/core/services/articles.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// ArticleService owns reads and updates of the stock ledger. It is the sole
// path through which stock is mutated.
type ArticleService struct {
	store  ports.LedgerStore
	logger *slog.Logger
}

// Statically assert that *ArticleService implements the ArticleService interface.
var _ ports.ArticleService = (*ArticleService)(nil)

// NewArticleService creates a new article service
func NewArticleService(store ports.LedgerStore, logger *slog.Logger) *ArticleService {
	return &ArticleService{
		store:  store,
		logger: logger.With(slog.String("service", "articles")),
	}
}

// BulkLoad validates and upserts a batch of articles into the ledger.
func (s *ArticleService) BulkLoad(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		s.logger.InfoContext(ctx, "no articles to load")
		return nil
	}

	for i := range articles {
		if err := articles[i].Validate(); err != nil {
			return fmt.Errorf("validation failed for article %d: %w", articles[i].ID, err)
		}
	}

	if err := s.store.SaveArticles(ctx, articles); err != nil {
		return fmt.Errorf("failed to save articles: %w", err)
	}

	s.logger.InfoContext(ctx, "loaded articles",
		slog.Int("count", len(articles)))

	return nil
}

// AdjustStock applies signed stock deltas as one atomic ledger operation.
// A domain.ErrInsufficientStock result is expected and passes through
// untranslated so callers can match on it; anything else is an infrastructure
// failure.
func (s *ArticleService) AdjustStock(ctx context.Context, deltas []domain.ArticleAmount) error {
	if len(deltas) == 0 {
		return nil
	}

	if err := s.store.ApplyDeltas(ctx, deltas); err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.logger.InfoContext(ctx, "stock adjustment rejected",
				slog.Int("deltas", len(deltas)))
			return err
		}
		return fmt.Errorf("failed to apply stock deltas: %w", err)
	}

	s.logger.InfoContext(ctx, "adjusted stock",
		slog.Int("deltas", len(deltas)))

	return nil
}

// FindByIDs retrieves articles by id. Unknown ids are absent from the result.
func (s *ArticleService) FindByIDs(ctx context.Context, ids []int64) ([]domain.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	articles, err := s.store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find articles: %w", err)
	}

	return articles, nil
}
