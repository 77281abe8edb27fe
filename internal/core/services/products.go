// internal/core/services/products.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// AvailableProductsCacheKey is where the advisory available-products snapshot
// lives in cache. The snapshot is invalidated on every successful purchase or
// bulk load.
const AvailableProductsCacheKey = "catalog:available"

// ProductService owns catalog reads and writes and orchestrates the atomic
// purchase transaction. It never touches the ledger store directly; all stock
// mutation is mediated by the article service.
type ProductService struct {
	store    ports.CatalogStore
	articles ports.ArticleService
	cache    ports.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Statically assert that *ProductService implements the ProductService interface.
var _ ports.ProductService = (*ProductService)(nil)

// NewProductService creates a new product service. The cache is optional;
// pass nil to serve every availability listing from the stores.
func NewProductService(
	store ports.CatalogStore,
	articles ports.ArticleService,
	cache ports.CacheRepository,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		store:    store,
		articles: articles,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("service", "products")),
	}
}

// BulkLoad validates and upserts a batch of products into the catalog.
func (s *ProductService) BulkLoad(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		s.logger.InfoContext(ctx, "no products to load")
		return nil
	}

	for i := range products {
		if err := products[i].Validate(); err != nil {
			return fmt.Errorf("validation failed for product %s: %w", products[i].Name, err)
		}
	}

	if err := s.store.SaveProducts(ctx, products); err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}

	s.invalidateAvailability(ctx)

	s.logger.InfoContext(ctx, "loaded products",
		slog.Int("count", len(products)))

	return nil
}

// FindByNames retrieves products by name. Unknown names are absent from the
// result, not an error.
func (s *ProductService) FindByNames(ctx context.Context, names []string) ([]domain.Product, error) {
	if len(names) == 0 {
		return nil, nil
	}

	products, err := s.store.FindByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	return products, nil
}

// ListAvailable returns the products whose full bill of materials is covered
// by current stock, preserving catalog enumeration order. The listing is a
// weak-consistency snapshot: it takes no locks and may be stale relative to a
// concurrent purchase, which is acceptable because the purchase path itself
// re-verifies stock atomically.
func (s *ProductService) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		var cached []domain.Product
		err := s.cache.Get(ctx, AvailableProductsCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "availability cache read failed",
				slog.String("error", err.Error()))
		}
	}

	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate catalog: %w", err)
	}

	// Collect the distinct article ids referenced across all bills of
	// materials so stock is fetched exactly once per article.
	seen := make(map[int64]struct{})
	var ids []int64
	for _, p := range products {
		for _, aa := range p.Articles {
			if _, ok := seen[aa.ID]; !ok {
				seen[aa.ID] = struct{}{}
				ids = append(ids, aa.ID)
			}
		}
	}

	articles, err := s.articles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stock for availability: %w", err)
	}

	stock := make(map[int64]int64, len(articles))
	for _, a := range articles {
		stock[a.ID] = a.Stock
	}

	available := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if isAvailable(p, stock) {
			available = append(available, p)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, AvailableProductsCacheKey, available, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "availability cache write failed",
				slog.String("error", err.Error()))
		}
	}

	s.logger.DebugContext(ctx, "listed available products",
		slog.Int("catalog_size", len(products)),
		slog.Int("available", len(available)))

	return available, nil
}

// isAvailable reports whether every bill line of p is covered by the fetched
// stock snapshot. An article missing from the snapshot counts as unavailable.
func isAvailable(p domain.Product, stock map[int64]int64) bool {
	for _, aa := range p.Articles {
		have, ok := stock[aa.ID]
		if !ok || have < aa.Amount {
			return false
		}
	}
	return true
}

// Purchase executes the purchase transaction: it aggregates the requested
// quantities per product, expands them into net per-article demand, and
// submits the negated totals as a single atomic conditional ledger update.
// The returned bool reports whether the purchase was committed; an
// insufficient-stock rejection is a normal denied outcome, never an error.
func (s *ProductService) Purchase(ctx context.Context, requests []domain.ProductAmount) (bool, error) {
	for i := range requests {
		if err := requests[i].Validate(); err != nil {
			return false, fmt.Errorf("invalid purchase request: %w", err)
		}
	}

	// Merge duplicate product names up front: buying the same product on two
	// lines is identical to one line with the summed quantity.
	requested := make(map[string]int64)
	var names []string
	for _, r := range requests {
		if _, ok := requested[r.Name]; !ok {
			names = append(names, r.Name)
		}
		requested[r.Name] += r.Amount
	}

	if len(names) == 0 {
		return true, nil
	}

	products, err := s.store.FindByNames(ctx, names)
	if err != nil {
		return false, fmt.Errorf("failed to resolve requested products: %w", err)
	}

	// Names with no catalog entry resolve to nothing and therefore contribute
	// no article demand; they do not fail the call.
	demand := make(map[int64]int64)
	var order []int64
	for _, p := range products {
		qty := requested[p.Name]
		for _, aa := range p.Articles {
			if _, ok := demand[aa.ID]; !ok {
				order = append(order, aa.ID)
			}
			demand[aa.ID] += qty * aa.Amount
		}
	}

	deltas := make([]domain.ArticleAmount, 0, len(order))
	for _, id := range order {
		deltas = append(deltas, domain.ArticleAmount{ID: id, Amount: -demand[id]})
	}

	// Requests that resolve to no article demand (unknown names, or products
	// with an empty bill of materials) commit trivially.
	if len(deltas) == 0 {
		return true, nil
	}

	if err := s.articles.AdjustStock(ctx, deltas); err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.logger.InfoContext(ctx, "purchase denied",
				slog.Int("products", len(names)),
				slog.Int("articles", len(deltas)))
			return false, nil
		}
		return false, fmt.Errorf("failed to commit purchase: %w", err)
	}

	s.invalidateAvailability(ctx)

	s.logger.InfoContext(ctx, "purchase committed",
		slog.Int("products", len(names)),
		slog.Int("articles", len(deltas)))

	return true, nil
}

// invalidateAvailability drops the cached availability snapshot after any
// mutation that could change it. Failures are logged and swallowed; the entry
// expires on its own TTL anyway.
func (s *ProductService) invalidateAvailability(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, AvailableProductsCacheKey); err != nil {
		s.logger.WarnContext(ctx, "availability cache invalidation failed",
			slog.String("error", err.Error()))
	}
}
