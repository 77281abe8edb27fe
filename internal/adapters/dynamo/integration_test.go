// internal/adapters/dynamo/integration_test.go
package dynamo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/warehouse-be/internal/adapters/dynamo"
	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/test/helpers"
)

// TestStores_Integration exercises both stores against DynamoDB Local.
// Requires docker; skipped in short mode.
func TestStores_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	db := helpers.SetupTestDynamoDB(t)

	cfg := &dynamo.Config{
		Region:        "us-east-1",
		ArticlesTable: "articles",
		ProductsTable: "products",
	}
	require.NoError(t, dynamo.EnsureTables(ctx, db.Client, cfg, helpers.TestLogger()))

	articles := dynamo.NewArticleStore(db.Client, cfg.ArticlesTable, helpers.TestLogger())
	products := dynamo.NewProductStore(db.Client, cfg.ProductsTable, helpers.TestLogger())

	t.Run("article roundtrip", func(t *testing.T) {
		err := articles.SaveArticles(ctx, []domain.Article{
			{ID: 1, Name: "leg", Stock: 12},
			{ID: 2, Name: "screw", Stock: 17},
		})
		require.NoError(t, err)

		found, err := articles.FindByIDs(ctx, []int64{1, 2, 99})
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.Article{
			{ID: 1, Name: "leg", Stock: 12},
			{ID: 2, Name: "screw", Stock: 17},
		}, found)
	})

	t.Run("deltas apply atomically", func(t *testing.T) {
		err := articles.ApplyDeltas(ctx, []domain.ArticleAmount{
			{ID: 1, Amount: -4},
			{ID: 2, Amount: -8},
		})
		require.NoError(t, err)

		found, err := articles.FindByIDs(ctx, []int64{1, 2})
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.Article{
			{ID: 1, Name: "leg", Stock: 8},
			{ID: 2, Name: "screw", Stock: 9},
		}, found)
	})

	t.Run("shortfall rolls the whole transaction back", func(t *testing.T) {
		err := articles.ApplyDeltas(ctx, []domain.ArticleAmount{
			{ID: 1, Amount: -2},
			{ID: 2, Amount: -100},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

		// Neither article moved, including the one that could have covered
		// its own delta.
		found, err := articles.FindByIDs(ctx, []int64{1, 2})
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.Article{
			{ID: 1, Name: "leg", Stock: 8},
			{ID: 2, Name: "screw", Stock: 9},
		}, found)
	})

	t.Run("product roundtrip and scan", func(t *testing.T) {
		chair := helpers.CreateTestProduct()
		table := helpers.CreateTestProduct(func(p *domain.Product) {
			p.Name = "Dinning Table"
			p.Price = 120
			p.Articles = []domain.ArticleAmount{
				{ID: 1, Amount: 4},
				{ID: 2, Amount: 8},
			}
		})
		require.NoError(t, products.SaveProducts(ctx, []domain.Product{chair, table}))

		byName, err := products.FindByNames(ctx, []string{"Dinning Table", "nope"})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, table, byName[0])

		all, err := products.FindAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []domain.Product{chair, table}, all)
	})
}
