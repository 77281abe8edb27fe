// internal/adapters/dynamo/batch.go
package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	// DynamoDB caps per the BatchWriteItem and BatchGetItem APIs.
	maxBatchWriteSize = 25
	maxBatchGetSize   = 100

	// A store under throttling pressure can keep reporting an unprocessed
	// remainder indefinitely; re-driving is capped so a pathological store
	// produces an error instead of a silent hang.
	maxBatchAttempts = 8

	batchRetryBaseDelay = 20 * time.Millisecond
)

// writeBatch upserts write requests into one table, re-driving the subset the
// store reports as unprocessed until none remain.
func writeBatch(ctx context.Context, client DynamoAPI, table string, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += maxBatchWriteSize {
		pending := requests[start:min(start+maxBatchWriteSize, len(requests))]

		for attempt := 0; ; attempt++ {
			out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{table: pending},
			})
			if err != nil {
				return err
			}

			remaining := out.UnprocessedItems[table]
			if len(remaining) == 0 {
				break
			}
			if attempt+1 >= maxBatchAttempts {
				return fmt.Errorf("%d write requests for table %s still unprocessed after %d attempts",
					len(remaining), table, maxBatchAttempts)
			}
			if err := batchBackoff(ctx, attempt); err != nil {
				return err
			}
			pending = remaining
		}
	}

	return nil
}

// readBatch fetches the given keys from one table, merging re-driven partial
// responses into one result set.
func readBatch(ctx context.Context, client DynamoAPI, table string, keys []map[string]types.AttributeValue) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue

	for start := 0; start < len(keys); start += maxBatchGetSize {
		pending := keys[start:min(start+maxBatchGetSize, len(keys))]

		for attempt := 0; ; attempt++ {
			out, err := client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: map[string]types.KeysAndAttributes{
					table: {Keys: pending},
				},
			})
			if err != nil {
				return nil, err
			}

			items = append(items, out.Responses[table]...)

			unprocessed, ok := out.UnprocessedKeys[table]
			if !ok || len(unprocessed.Keys) == 0 {
				break
			}
			if attempt+1 >= maxBatchAttempts {
				return nil, fmt.Errorf("%d keys for table %s still unprocessed after %d attempts",
					len(unprocessed.Keys), table, maxBatchAttempts)
			}
			if err := batchBackoff(ctx, attempt); err != nil {
				return nil, err
			}
			pending = unprocessed.Keys
		}
	}

	return items, nil
}

func batchBackoff(ctx context.Context, attempt int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(batchRetryBaseDelay << attempt):
		return nil
	}
}
