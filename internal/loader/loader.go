// internal/loader/loader.go
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ammerola/warehouse-be/internal/adapters/storage"
	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// flexInt64 decodes JSON numbers that feeds encode either as numbers or as
// quoted strings ("12").
type flexInt64 int64

func (n *flexInt64) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*n = flexInt64(v)
		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = flexInt64(v)
	return nil
}

// inventoryFeed mirrors the inventory feed document
type inventoryFeed struct {
	Inventory []struct {
		ArtID flexInt64 `json:"art_id"`
		Name  string    `json:"name"`
		Stock flexInt64 `json:"stock"`
	} `json:"inventory"`
}

// productFeed mirrors the product catalog feed document
type productFeed struct {
	Products []struct {
		Name            string    `json:"name"`
		Price           flexInt64 `json:"price"`
		ContainArticles []struct {
			ArtID    flexInt64 `json:"art_id"`
			AmountOf flexInt64 `json:"amount_of"`
		} `json:"contain_articles"`
	} `json:"products"`
}

// Loader ingests feed documents into the article ledger and product catalog
type Loader struct {
	fetcher  storage.FeedFetcher
	articles ports.ArticleService
	products ports.ProductService
	logger   *slog.Logger
}

// NewLoader creates a feed loader
func NewLoader(fetcher storage.FeedFetcher, articles ports.ArticleService, products ports.ProductService, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher:  fetcher,
		articles: articles,
		products: products,
		logger:   logger.With(slog.String("component", "loader")),
	}
}

// LoadInventory ingests an inventory feed and returns the number of articles
// loaded
func (l *Loader) LoadInventory(ctx context.Context, location string) (int, error) {
	data, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return 0, err
	}

	var feed inventoryFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return 0, fmt.Errorf("failed to parse inventory feed %s: %w", location, err)
	}

	articles := make([]domain.Article, 0, len(feed.Inventory))
	for _, entry := range feed.Inventory {
		articles = append(articles, domain.Article{
			ID:    int64(entry.ArtID),
			Name:  entry.Name,
			Stock: int64(entry.Stock),
		})
	}

	if err := l.articles.BulkLoad(ctx, articles); err != nil {
		return 0, err
	}

	l.logger.InfoContext(ctx, "inventory feed loaded",
		slog.String("location", location),
		slog.Int("articles", len(articles)))

	return len(articles), nil
}

// LoadProducts ingests a product catalog feed and returns the number of
// products loaded
func (l *Loader) LoadProducts(ctx context.Context, location string) (int, error) {
	data, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return 0, err
	}

	var feed productFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return 0, fmt.Errorf("failed to parse product feed %s: %w", location, err)
	}

	products := make([]domain.Product, 0, len(feed.Products))
	for _, entry := range feed.Products {
		bill := make([]domain.ArticleAmount, 0, len(entry.ContainArticles))
		for _, aa := range entry.ContainArticles {
			bill = append(bill, domain.ArticleAmount{
				ID:     int64(aa.ArtID),
				Amount: int64(aa.AmountOf),
			})
		}
		products = append(products, domain.Product{
			Name:     entry.Name,
			Price:    int64(entry.Price),
			Articles: bill,
		})
	}

	if err := l.products.BulkLoad(ctx, products); err != nil {
		return 0, err
	}

	l.logger.InfoContext(ctx, "product feed loaded",
		slog.String("location", location),
		slog.Int("products", len(products)))

	return len(products), nil
}
