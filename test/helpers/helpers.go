// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/warehouse-be/internal/core/domain"
)

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestRedis starts an in-process Redis and returns a connected client
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		client.Close()
	})

	return &TestRedis{Client: client, Server: server}
}

// CreateTestArticle creates an article with sensible defaults, applying any mutators
func CreateTestArticle(mutators ...func(*domain.Article)) domain.Article {
	article := domain.Article{
		ID:    1,
		Name:  "leg",
		Stock: 12,
	}
	for _, mutate := range mutators {
		mutate(&article)
	}
	return article
}

// CreateTestArticles creates n articles with distinct ids
func CreateTestArticles(n int) []domain.Article {
	articles := make([]domain.Article, n)
	for i := 0; i < n; i++ {
		articles[i] = domain.Article{
			ID:    int64(i + 1),
			Name:  fmt.Sprintf("article-%d", i+1),
			Stock: int64(10 * (i + 1)),
		}
	}
	return articles
}

// CreateTestProduct creates a product with sensible defaults, applying any mutators
func CreateTestProduct(mutators ...func(*domain.Product)) domain.Product {
	product := domain.Product{
		Name:  "Dining Chair",
		Price: 75,
		Articles: []domain.ArticleAmount{
			{ID: 1, Amount: 4},
			{ID: 2, Amount: 8},
			{ID: 3, Amount: 1},
		},
	}
	for _, mutate := range mutators {
		mutate(&product)
	}
	return product
}

// TestDynamoDB represents a DynamoDB Local container for integration tests
type TestDynamoDB struct {
	Client   *dynamodb.Client
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
}

// SetupTestDynamoDB starts a DynamoDB Local container and returns a connected
// client. Tests using it should be guarded with testing.Short.
func SetupTestDynamoDB(t *testing.T) *TestDynamoDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "could not connect to docker")

	resource, err := pool.Run("amazon/dynamodb-local", "2.5.2", nil)
	require.NoError(t, err, "could not start dynamodb-local")

	endpoint := fmt.Sprintf("http://localhost:%s", resource.GetPort("8000/tcp"))

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		),
	)
	require.NoError(t, err)

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	// DynamoDB Local takes a moment to accept connections
	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := client.ListTables(ctx, &dynamodb.ListTablesInput{})
		return err
	})
	require.NoError(t, err, "dynamodb-local never became ready")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("could not purge dynamodb-local: %v", err)
		}
	})

	return &TestDynamoDB{Client: client, Resource: resource, Pool: pool}
}
