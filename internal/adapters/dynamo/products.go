// internal/adapters/dynamo/products.go
package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// productRecord is the persisted shape of a domain.Product. The bill of
// materials is stored as a list so its order survives round trips.
type productRecord struct {
	Name     string                `dynamodbav:"name"`
	Price    int64                 `dynamodbav:"price"`
	Articles []articleAmountRecord `dynamodbav:"articles"`
}

type articleAmountRecord struct {
	ID     int64 `dynamodbav:"id"`
	Amount int64 `dynamodbav:"amount"`
}

// ProductStore implements the catalog store on DynamoDB
type ProductStore struct {
	client DynamoAPI
	table  string
	logger *slog.Logger
}

// Statically assert that *ProductStore implements the CatalogStore interface.
var _ ports.CatalogStore = (*ProductStore)(nil)

// NewProductStore creates a catalog store backed by the given table
func NewProductStore(client DynamoAPI, table string, logger *slog.Logger) *ProductStore {
	return &ProductStore{
		client: client,
		table:  table,
		logger: logger.With(slog.String("store", "products")),
	}
}

// SaveProducts bulk-upserts products, re-driving partially accepted batches.
func (s *ProductStore) SaveProducts(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(products))
	for _, product := range products {
		item, err := attributevalue.MarshalMap(toProductRecord(product))
		if err != nil {
			return fmt.Errorf("failed to marshal product %s: %w", product.Name, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	if err := writeBatch(ctx, s.client, s.table, requests); err != nil {
		return fmt.Errorf("failed to write products: %w", err)
	}

	s.logger.InfoContext(ctx, "products saved",
		slog.Int("count", len(products)))

	return nil
}

// FindByNames returns the products matching names. Duplicates are collapsed
// before querying and names without a record are absent from the result.
func (s *ProductStore) FindByNames(ctx context.Context, names []string) ([]domain.Product, error) {
	if len(names) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(names))
	keys := make([]map[string]types.AttributeValue, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		keys = append(keys, map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: name},
		})
	}

	items, err := readBatch(ctx, s.client, s.table, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	products := make([]domain.Product, 0, len(items))
	for _, item := range items {
		product, err := unmarshalProduct(item)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

// FindAll enumerates the whole catalog, following the scan cursor until the
// store reports no further pages.
func (s *ProductStore) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}

		for _, item := range page.Items {
			product, err := unmarshalProduct(item)
			if err != nil {
				return nil, err
			}
			products = append(products, product)
		}
	}

	s.logger.DebugContext(ctx, "catalog enumerated",
		slog.Int("count", len(products)))

	return products, nil
}

func toProductRecord(product domain.Product) productRecord {
	record := productRecord{
		Name:     product.Name,
		Price:    product.Price,
		Articles: make([]articleAmountRecord, 0, len(product.Articles)),
	}
	for _, aa := range product.Articles {
		record.Articles = append(record.Articles, articleAmountRecord{
			ID:     aa.ID,
			Amount: aa.Amount,
		})
	}
	return record
}

func unmarshalProduct(item map[string]types.AttributeValue) (domain.Product, error) {
	var record productRecord
	if err := attributevalue.UnmarshalMap(item, &record); err != nil {
		return domain.Product{}, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	product := domain.Product{
		Name:     record.Name,
		Price:    record.Price,
		Articles: make([]domain.ArticleAmount, 0, len(record.Articles)),
	}
	for _, aa := range record.Articles {
		product.Articles = append(product.Articles, domain.ArticleAmount{
			ID:     aa.ID,
			Amount: aa.Amount,
		})
	}
	return product, nil
}
