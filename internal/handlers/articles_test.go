// internal/handlers/articles_test.go
package handlers_test

import (
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

func TestArticlesHandler_GetArticles(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockArticleService(ctrl)
	handler := handlers.NewArticlesHandler(service, helpers.TestLogger())

	service.EXPECT().
		FindByIDs(gomock.Any(), []int64{1, 2}).
		Return([]domain.Article{{ID: 1, Name: "leg", Stock: 12}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles?ids=1,2", nil)
	rec := httptest.NewRecorder()
	handler.GetArticles(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"leg"`)
}

func TestArticlesHandler_GetArticles_BadIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockArticleService(ctrl)
	handler := handlers.NewArticlesHandler(service, helpers.TestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles?ids=1,chair", nil)
	rec := httptest.NewRecorder()
	handler.GetArticles(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticlesHandler_GetArticles_MissingIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockArticleService(ctrl)
	handler := handlers.NewArticlesHandler(service, helpers.TestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/articles", nil)
	rec := httptest.NewRecorder()
	handler.GetArticles(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticlesHandler_LoadArticles(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockArticleService(ctrl)
	handler := handlers.NewArticlesHandler(service, helpers.TestLogger())

	service.EXPECT().
		BulkLoad(gomock.Any(), []domain.Article{{ID: 1, Name: "leg", Stock: 12}}).
		Return(nil)

	body := `{"articles":[{"id":1,"name":"leg","stock":12}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.LoadArticles(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"loaded":1`)
}

func TestArticlesHandler_LoadArticles_RejectsInvalidArticle(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockArticleService(ctrl)
	handler := handlers.NewArticlesHandler(service, helpers.TestLogger())

	body := `{"articles":[{"id":1,"name":"","stock":12}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.LoadArticles(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
}

func TestArticlesHandler_AdjustStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockArticleService(ctrl)
	handler := handlers.NewArticlesHandler(service, helpers.TestLogger())

	service.EXPECT().
		AdjustStock(gomock.Any(), []domain.ArticleAmount{{ID: 1, Amount: 5}}).
		Return(nil)

	body := `{"deltas":[{"id":1,"amount":5}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/stock", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.AdjustStock(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestArticlesHandler_AdjustStock_InsufficientStockIsConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockArticleService(ctrl)
	handler := handlers.NewArticlesHandler(service, helpers.TestLogger())

	service.EXPECT().
		AdjustStock(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("ledger rejected: %w", domain.ErrInsufficientStock))

	body := `{"deltas":[{"id":1,"amount":-100}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/stock", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.AdjustStock(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient stock")
}

func TestArticlesHandler_AdjustStock_InfrastructureErrorIs500(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockArticleService(ctrl)
	handler := handlers.NewArticlesHandler(service, helpers.TestLogger())

	service.EXPECT().
		AdjustStock(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("connection reset"))

	body := `{"deltas":[{"id":1,"amount":-1}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/stock", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.AdjustStock(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
