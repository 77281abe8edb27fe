// internal/loader/loader_test.go
package loader_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/loader"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

// stubFetcher serves canned feed documents keyed by location
type stubFetcher struct {
	feeds map[string]string
}

func (s *stubFetcher) Fetch(_ context.Context, location string) ([]byte, error) {
	feed, ok := s.feeds[location]
	if !ok {
		return nil, fmt.Errorf("no feed at %s", location)
	}
	return []byte(feed), nil
}

func TestLoader_LoadInventory(t *testing.T) {
	ctrl := gomock.NewController(t)
	articles := mocks.NewMockArticleService(ctrl)

	fetcher := &stubFetcher{feeds: map[string]string{
		"inventory.json": `{
			"inventory": [
				{"art_id": "1", "name": "leg", "stock": "12"},
				{"art_id": "2", "name": "screw", "stock": "17"}
			]
		}`,
	}}

	articles.EXPECT().
		BulkLoad(gomock.Any(), []domain.Article{
			{ID: 1, Name: "leg", Stock: 12},
			{ID: 2, Name: "screw", Stock: 17},
		}).
		Return(nil)

	l := loader.NewLoader(fetcher, articles, nil, helpers.TestLogger())
	n, err := l.LoadInventory(context.Background(), "inventory.json")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLoader_LoadInventory_AcceptsBareNumbers(t *testing.T) {
	ctrl := gomock.NewController(t)
	articles := mocks.NewMockArticleService(ctrl)

	fetcher := &stubFetcher{feeds: map[string]string{
		"inventory.json": `{"inventory": [{"art_id": 1, "name": "leg", "stock": 12}]}`,
	}}

	articles.EXPECT().
		BulkLoad(gomock.Any(), []domain.Article{{ID: 1, Name: "leg", Stock: 12}}).
		Return(nil)

	l := loader.NewLoader(fetcher, articles, nil, helpers.TestLogger())
	n, err := l.LoadInventory(context.Background(), "inventory.json")

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoader_LoadProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	products := mocks.NewMockProductService(ctrl)

	fetcher := &stubFetcher{feeds: map[string]string{
		"products.json": `{
			"products": [
				{
					"name": "Dining Chair",
					"price": 75,
					"contain_articles": [
						{"art_id": "1", "amount_of": "4"},
						{"art_id": "2", "amount_of": "8"},
						{"art_id": "3", "amount_of": "1"}
					]
				}
			]
		}`,
	}}

	products.EXPECT().
		BulkLoad(gomock.Any(), []domain.Product{helpers.CreateTestProduct()}).
		Return(nil)

	l := loader.NewLoader(fetcher, nil, products, helpers.TestLogger())
	n, err := l.LoadProducts(context.Background(), "products.json")

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoader_LoadInventory_MalformedFeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	articles := mocks.NewMockArticleService(ctrl)

	fetcher := &stubFetcher{feeds: map[string]string{
		"inventory.json": `{"inventory": [{"art_id": "x"}]}`,
	}}

	l := loader.NewLoader(fetcher, articles, nil, helpers.TestLogger())
	_, err := l.LoadInventory(context.Background(), "inventory.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid numeric string")
}

func TestLoader_LoadInventory_MissingFeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	articles := mocks.NewMockArticleService(ctrl)

	l := loader.NewLoader(&stubFetcher{}, articles, nil, helpers.TestLogger())
	_, err := l.LoadInventory(context.Background(), "nope.json")

	assert.Error(t, err)
}

func TestLoader_LoadInventory_ServiceErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	articles := mocks.NewMockArticleService(ctrl)

	fetcher := &stubFetcher{feeds: map[string]string{
		"inventory.json": `{"inventory": [{"art_id": 1, "name": "leg", "stock": 12}]}`,
	}}

	articles.EXPECT().
		BulkLoad(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("store unavailable"))

	l := loader.NewLoader(fetcher, articles, nil, helpers.TestLogger())
	_, err := l.LoadInventory(context.Background(), "inventory.json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store unavailable")
}
