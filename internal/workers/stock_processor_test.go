// internal/workers/stock_processor_test.go
package workers_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/workers"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

func TestStockProcessor_ScanLowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogStore(ctrl)
	ledger := mocks.NewMockLedgerStore(ctrl)

	chair := helpers.CreateTestProduct()
	table := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Name = "Dinning Table"
		p.Articles = []domain.ArticleAmount{
			{ID: 1, Amount: 8},
			{ID: 4, Amount: 1},
		}
	})

	catalog.EXPECT().FindAll(gomock.Any()).Return([]domain.Product{chair, table}, nil)
	// Article 1 is shared by both products and must be fetched once.
	ledger.EXPECT().
		FindByIDs(gomock.Any(), []int64{1, 2, 3, 4}).
		Return([]domain.Article{
			{ID: 1, Name: "leg", Stock: 2},
			{ID: 2, Name: "screw", Stock: 17},
			{ID: 3, Name: "seat", Stock: 0},
			{ID: 4, Name: "table top", Stock: 10},
		}, nil)

	processor := workers.NewStockProcessor(catalog, ledger, helpers.TestLogger())
	task, err := workers.NewLowStockScanTask(5)
	require.NoError(t, err)

	assert.NoError(t, processor.ScanLowStock(context.Background(), task))
}

func TestStockProcessor_ScanLowStock_EmptyPayloadUsesDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogStore(ctrl)
	ledger := mocks.NewMockLedgerStore(ctrl)

	catalog.EXPECT().FindAll(gomock.Any()).Return([]domain.Product{helpers.CreateTestProduct()}, nil)
	ledger.EXPECT().
		FindByIDs(gomock.Any(), []int64{1, 2, 3}).
		Return([]domain.Article{{ID: 1, Name: "leg", Stock: 100}}, nil)

	processor := workers.NewStockProcessor(catalog, ledger, helpers.TestLogger())
	task := asynq.NewTask(workers.TypeLowStockScan, nil)

	assert.NoError(t, processor.ScanLowStock(context.Background(), task))
}

func TestStockProcessor_ScanLowStock_EmptyCatalogSkipsLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogStore(ctrl)
	ledger := mocks.NewMockLedgerStore(ctrl)

	catalog.EXPECT().FindAll(gomock.Any()).Return(nil, nil)

	processor := workers.NewStockProcessor(catalog, ledger, helpers.TestLogger())
	task, err := workers.NewLowStockScanTask(5)
	require.NoError(t, err)

	assert.NoError(t, processor.ScanLowStock(context.Background(), task))
}

func TestStockProcessor_ScanLowStock_StoreErrorRetriable(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalogStore(ctrl)
	ledger := mocks.NewMockLedgerStore(ctrl)

	catalog.EXPECT().FindAll(gomock.Any()).Return(nil, fmt.Errorf("scan throttled"))

	processor := workers.NewStockProcessor(catalog, ledger, helpers.TestLogger())
	task, err := workers.NewLowStockScanTask(5)
	require.NoError(t, err)

	err = processor.ScanLowStock(context.Background(), task)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan throttled")
}
