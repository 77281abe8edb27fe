// internal/handlers/products_test.go
package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/handlers"
	"github.com/ammerola/warehouse-be/test/helpers"
	"github.com/ammerola/warehouse-be/test/mocks"
)

func newProductsHandler(service *mocks.MockProductService) *handlers.ProductsHandler {
	return handlers.NewProductsHandler(service, nil, 5, helpers.TestLogger())
}

func TestProductsHandler_ListAvailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	service.EXPECT().
		ListAvailable(gomock.Any()).
		Return([]domain.Product{helpers.CreateTestProduct()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/available", nil)
	rec := httptest.NewRecorder()
	handler.ListAvailable(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dining Chair")
}

func TestProductsHandler_GetProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	service.EXPECT().
		FindByNames(gomock.Any(), []string{"Dining Chair", "Dinning Table"}).
		Return([]domain.Product{helpers.CreateTestProduct()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?names=Dining+Chair,Dinning+Table", nil)
	rec := httptest.NewRecorder()
	handler.GetProducts(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductsHandler_GetProducts_MissingNames(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	handler.GetProducts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductsHandler_LoadProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	service.EXPECT().
		BulkLoad(gomock.Any(), []domain.Product{helpers.CreateTestProduct()}).
		Return(nil)

	body := `{"products":[{"name":"Dining Chair","price":75,"articles":[{"id":1,"amount":4},{"id":2,"amount":8},{"id":3,"amount":1}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.LoadProducts(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestProductsHandler_LoadProducts_RejectsNegativeAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	body := `{"products":[{"name":"Dining Chair","price":75,"articles":[{"id":1,"amount":-4}]}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.LoadProducts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductsHandler_Purchase(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	service.EXPECT().
		Purchase(gomock.Any(), []domain.ProductAmount{{Name: "Dining Chair", Amount: 2}}).
		Return(true, nil)

	body := `{"items":[{"name":"Dining Chair","amount":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/purchase", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.PurchaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Purchased)
	assert.Empty(t, resp.Reason)
}

func TestProductsHandler_Purchase_DeniedIsConflictNotError(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	service.EXPECT().
		Purchase(gomock.Any(), gomock.Any()).
		Return(false, nil)

	body := `{"items":[{"name":"Dining Chair","amount":500}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/purchase", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp handlers.PurchaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Purchased)
	assert.Equal(t, "insufficient stock", resp.Reason)
}

func TestProductsHandler_Purchase_InfrastructureErrorIs500(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	service.EXPECT().
		Purchase(gomock.Any(), gomock.Any()).
		Return(false, fmt.Errorf("transact failed"))

	body := `{"items":[{"name":"Dining Chair","amount":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/purchase", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProductsHandler_Purchase_RejectsNegativeAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	body := `{"items":[{"name":"Dining Chair","amount":-1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/purchase", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductsHandler_Purchase_BadBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockProductService(ctrl)
	handler := newProductsHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/purchase", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	handler.Purchase(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
