// internal/adapters/dynamo/articles.go
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// articleRecord is the persisted shape of a domain.Article
type articleRecord struct {
	ID    int64  `dynamodbav:"id"`
	Name  string `dynamodbav:"name"`
	Stock int64  `dynamodbav:"stock"`
}

// ArticleStore implements the ledger store on DynamoDB
type ArticleStore struct {
	client DynamoAPI
	table  string
	logger *slog.Logger
}

// Statically assert that *ArticleStore implements the LedgerStore interface.
var _ ports.LedgerStore = (*ArticleStore)(nil)

// NewArticleStore creates a ledger store backed by the given table
func NewArticleStore(client DynamoAPI, table string, logger *slog.Logger) *ArticleStore {
	return &ArticleStore{
		client: client,
		table:  table,
		logger: logger.With(slog.String("store", "articles")),
	}
}

// SaveArticles bulk-upserts articles, re-driving partially accepted batches.
func (s *ArticleStore) SaveArticles(ctx context.Context, articles []domain.Article) error {
	if len(articles) == 0 {
		return nil
	}

	requests := make([]types.WriteRequest, 0, len(articles))
	for _, article := range articles {
		item, err := attributevalue.MarshalMap(articleRecord{
			ID:    article.ID,
			Name:  article.Name,
			Stock: article.Stock,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal article %d: %w", article.ID, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	if err := writeBatch(ctx, s.client, s.table, requests); err != nil {
		return fmt.Errorf("failed to write articles: %w", err)
	}

	s.logger.InfoContext(ctx, "articles saved",
		slog.Int("count", len(articles)))

	return nil
}

// ApplyDeltas applies all deltas as one conditional transaction. Negative
// deltas carry a condition requiring the current stock to cover the
// magnitude; when any condition fails the whole transaction is cancelled and
// domain.ErrInsufficientStock is reported.
func (s *ArticleStore) ApplyDeltas(ctx context.Context, deltas []domain.ArticleAmount) error {
	if len(deltas) == 0 {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(deltas))
	for _, delta := range deltas {
		update := &types.Update{
			TableName: aws.String(s.table),
			Key: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta.ID, 10)},
			},
			UpdateExpression: aws.String("ADD #stock :delta"),
			ExpressionAttributeNames: map[string]string{
				"#stock": "stock",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":delta": &types.AttributeValueMemberN{Value: strconv.FormatInt(delta.Amount, 10)},
			},
		}

		if delta.Amount < 0 {
			update.ConditionExpression = aws.String("#stock >= :need")
			update.ExpressionAttributeValues[":need"] =
				&types.AttributeValueMemberN{Value: strconv.FormatInt(-delta.Amount, 10)}
		}

		items = append(items, types.TransactWriteItem{Update: update})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var cancelled *types.TransactionCanceledException
		if errors.As(err, &cancelled) && hasConditionFailure(cancelled) {
			return fmt.Errorf("stock update for %d article(s) rejected: %w",
				len(deltas), domain.ErrInsufficientStock)
		}
		return fmt.Errorf("failed to apply stock deltas: %w", err)
	}

	s.logger.DebugContext(ctx, "stock deltas applied",
		slog.Int("count", len(deltas)))

	return nil
}

// hasConditionFailure reports whether the transaction was cancelled by a
// failed condition check, as opposed to a conflict or capacity problem.
func hasConditionFailure(cancelled *types.TransactionCanceledException) bool {
	for _, reason := range cancelled.CancellationReasons {
		if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// FindByIDs returns the articles matching ids. Duplicates are collapsed
// before querying and ids without a record are absent from the result.
func (s *ArticleStore) FindByIDs(ctx context.Context, ids []int64) ([]domain.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	seen := make(map[int64]struct{}, len(ids))
	keys := make([]map[string]types.AttributeValue, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		keys = append(keys, map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)},
		})
	}

	items, err := readBatch(ctx, s.client, s.table, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to read articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(items))
	for _, item := range items {
		var record articleRecord
		if err := attributevalue.UnmarshalMap(item, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal article: %w", err)
		}
		articles = append(articles, domain.Article{
			ID:    record.ID,
			Name:  record.Name,
			Stock: record.Stock,
		})
	}

	return articles, nil
}
