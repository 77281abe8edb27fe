// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	dynamo_a "github.com/ammerola/warehouse-be/internal/adapters/dynamo"
	"github.com/ammerola/warehouse-be/internal/adapters/storage"
	"github.com/ammerola/warehouse-be/internal/core/services"
	"github.com/ammerola/warehouse-be/internal/loader"
	"github.com/ammerola/warehouse-be/internal/pkg/config"
	"github.com/ammerola/warehouse-be/internal/pkg/logger"
)

func main() {
	var (
		inventoryFeed = flag.String("inventory", "", "inventory feed location (file path or s3://bucket/key), overrides INVENTORY_FEED")
		productFeed   = flag.String("products", "", "product feed location (file path or s3://bucket/key), overrides PRODUCT_FEED")
		timeout       = flag.Duration("timeout", 2*time.Minute, "overall seeding timeout")
	)
	flag.Parse()

	slogger := logger.SetupLogger("info", "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	inventory := cfg.Loader.InventoryFeed
	if *inventoryFeed != "" {
		inventory = *inventoryFeed
	}
	products := cfg.Loader.ProductFeed
	if *productFeed != "" {
		products = *productFeed
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dynamoCfg := &dynamo_a.Config{
		Region:          cfg.DynamoDB.Region,
		AccessKeyID:     cfg.DynamoDB.AccessKeyID,
		SecretAccessKey: cfg.DynamoDB.SecretAccessKey,
		Endpoint:        cfg.DynamoDB.Endpoint,
		ArticlesTable:   cfg.DynamoDB.ArticlesTable,
		ProductsTable:   cfg.DynamoDB.ProductsTable,
	}

	dynamoClient, err := dynamo_a.NewClient(ctx, dynamoCfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize DynamoDB client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.DynamoDB.EnsureTables {
		if err := dynamo_a.EnsureTables(ctx, dynamoClient, dynamoCfg, slogger); err != nil {
			slogger.Error("failed to ensure DynamoDB tables", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	fetcher, err := storage.NewFetcher(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, slogger)
	if err != nil {
		slogger.Error("failed to initialize feed fetcher", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ledgerStore := dynamo_a.NewArticleStore(dynamoClient, cfg.DynamoDB.ArticlesTable, slogger)
	catalogStore := dynamo_a.NewProductStore(dynamoClient, cfg.DynamoDB.ProductsTable, slogger)

	articleService := services.NewArticleService(ledgerStore, slogger)
	productService := services.NewProductService(catalogStore, articleService, nil, 0, slogger)

	feeds := loader.NewLoader(fetcher, articleService, productService, slogger)

	articleCount, err := feeds.LoadInventory(ctx, inventory)
	if err != nil {
		slogger.Error("failed to load inventory feed",
			slog.String("location", inventory),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	productCount, err := feeds.LoadProducts(ctx, products)
	if err != nil {
		slogger.Error("failed to load product feed",
			slog.String("location", products),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	slogger.Info("seeding complete",
		slog.Int("articles", articleCount),
		slog.Int("products", productCount))
}
