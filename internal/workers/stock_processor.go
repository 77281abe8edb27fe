// internal/workers/stock_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// DefaultLowStockThreshold applies when a scan task carries no threshold
const DefaultLowStockThreshold int64 = 5

// StockProcessor handles stock monitoring tasks
type StockProcessor struct {
	catalog ports.CatalogStore
	ledger  ports.LedgerStore
	logger  *slog.Logger
}

// NewStockProcessor creates a new stock processor
func NewStockProcessor(catalog ports.CatalogStore, ledger ports.LedgerStore, logger *slog.Logger) *StockProcessor {
	return &StockProcessor{
		catalog: catalog,
		ledger:  ledger,
		logger:  logger.With(slog.String("processor", "stock")),
	}
}

// ScanLowStock walks the catalog's articles and reports the ones at or below
// the task's threshold, together with the products they starve.
func (p *StockProcessor) ScanLowStock(ctx context.Context, t *asynq.Task) error {
	payload := LowStockScanPayload{Threshold: DefaultLowStockThreshold}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("failed to unmarshal low stock payload: %w", err)
		}
	}
	if payload.Threshold <= 0 {
		payload.Threshold = DefaultLowStockThreshold
	}

	products, err := p.catalog.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate catalog: %w", err)
	}

	// Articles referenced by more than one product are fetched once.
	seen := make(map[int64]struct{})
	var ids []int64
	usedBy := make(map[int64][]string)
	for _, product := range products {
		for _, aa := range product.Articles {
			usedBy[aa.ID] = append(usedBy[aa.ID], product.Name)
			if _, ok := seen[aa.ID]; ok {
				continue
			}
			seen[aa.ID] = struct{}{}
			ids = append(ids, aa.ID)
		}
	}

	if len(ids) == 0 {
		p.logger.InfoContext(ctx, "low stock scan found empty catalog")
		return nil
	}

	articles, err := p.ledger.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to read article stock: %w", err)
	}

	var low int
	for _, article := range articles {
		if article.Stock > payload.Threshold {
			continue
		}
		low++
		p.logger.WarnContext(ctx, "article stock low",
			slog.Int64("article_id", article.ID),
			slog.String("name", article.Name),
			slog.Int64("stock", article.Stock),
			slog.Int64("threshold", payload.Threshold),
			slog.Any("products", usedBy[article.ID]))
	}

	p.logger.InfoContext(ctx, "low stock scan completed",
		slog.Int("articles_scanned", len(articles)),
		slog.Int("articles_low", low),
		slog.Int64("threshold", payload.Threshold))

	return nil
}
