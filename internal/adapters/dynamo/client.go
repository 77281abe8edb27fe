// internal/adapters/dynamo/client.go
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI captures the DynamoDB operations the stores depend on. The
// concrete *dynamodb.Client satisfies it; tests substitute a fake.
type DynamoAPI interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Config holds DynamoDB connection configuration
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // For DynamoDB Local in development
	ArticlesTable   string
	ProductsTable   string
}

// NewClient creates a DynamoDB client from the given configuration
func NewClient(ctx context.Context, cfg *Config, logger *slog.Logger) (*dynamodb.Client, error) {
	awsCfg, err := buildAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	logger.Info("DynamoDB client initialized",
		slog.String("region", cfg.Region),
		slog.String("articles_table", cfg.ArticlesTable),
		slog.String("products_table", cfg.ProductsTable))

	return client, nil
}

// buildAWSConfig builds AWS configuration
func buildAWSConfig(ctx context.Context, cfg *Config) (aws.Config, error) {
	// Use custom credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		return config.LoadDefaultConfig(ctx,
			config.WithRegion(cfg.Region),
			config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					cfg.AccessKeyID,
					cfg.SecretAccessKey,
					"",
				),
			),
		)
	}

	// Otherwise use default credential chain
	return config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
}

// EnsureTables creates the articles and products tables when they do not
// exist yet. Intended for development and tests against DynamoDB Local;
// production tables are provisioned out of band.
func EnsureTables(ctx context.Context, client *dynamodb.Client, cfg *Config, logger *slog.Logger) error {
	tables := []struct {
		name    string
		keyAttr string
		keyType types.ScalarAttributeType
	}{
		{name: cfg.ArticlesTable, keyAttr: "id", keyType: types.ScalarAttributeTypeN},
		{name: cfg.ProductsTable, keyAttr: "name", keyType: types.ScalarAttributeTypeS},
	}

	for _, table := range tables {
		_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(table.name),
		})
		if err == nil {
			continue
		}

		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to describe table %s: %w", table.name, err)
		}

		_, err = client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName:   aws.String(table.name),
			BillingMode: types.BillingModePayPerRequest,
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String(table.keyAttr), AttributeType: table.keyType},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(table.keyAttr), KeyType: types.KeyTypeHash},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}

		waiter := dynamodb.NewTableExistsWaiter(client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{
			TableName: aws.String(table.name),
		}, 30*time.Second); err != nil {
			return fmt.Errorf("table %s never became active: %w", table.name, err)
		}

		logger.Info("created DynamoDB table", slog.String("table", table.name))
	}

	return nil
}
