// internal/handlers/articles.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
)

// ArticlesHandler handles article ledger HTTP requests
type ArticlesHandler struct {
	service ports.ArticleService
	logger  *slog.Logger
}

// NewArticlesHandler creates a new articles handler
func NewArticlesHandler(service ports.ArticleService, logger *slog.Logger) *ArticlesHandler {
	return &ArticlesHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "articles")),
	}
}

// GetArticles handles GET /api/v1/articles?ids=1,2,3
func (h *ArticlesHandler) GetArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := parseIDList(r.URL.Query().Get("ids"))
	if err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Invalid ids parameter")
		return
	}
	if len(ids) == 0 {
		respondError(h.logger, w, http.StatusBadRequest, "At least one article id is required")
		return
	}

	articles, err := h.service.FindByIDs(ctx, ids)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get articles",
			slog.String("error", err.Error()))
		respondError(h.logger, w, http.StatusInternalServerError, "Failed to retrieve articles")
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"articles": articles})
}

// LoadArticles handles POST /api/v1/articles
func (h *ArticlesHandler) LoadArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoadArticlesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	articles := req.ToDomain()
	if err := h.service.BulkLoad(ctx, articles); err != nil {
		h.logger.ErrorContext(ctx, "failed to load articles",
			slog.String("error", err.Error()))
		respondError(h.logger, w, http.StatusInternalServerError, "Failed to load articles")
		return
	}

	h.logger.InfoContext(ctx, "articles loaded", slog.Int("count", len(articles)))

	respondJSON(h.logger, w, http.StatusCreated, map[string]interface{}{"loaded": len(articles)})
}

// AdjustStock handles POST /api/v1/articles/stock
func (h *ArticlesHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Deltas) == 0 {
		respondError(h.logger, w, http.StatusBadRequest, "At least one delta is required")
		return
	}

	if err := h.service.AdjustStock(ctx, req.ToDomain()); err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			respondJSON(h.logger, w, http.StatusConflict, map[string]string{
				"error": "Insufficient stock for requested adjustment",
			})
			return
		}
		h.logger.ErrorContext(ctx, "failed to adjust stock",
			slog.String("error", err.Error()))
		respondError(h.logger, w, http.StatusInternalServerError, "Failed to adjust stock")
		return
	}

	h.logger.InfoContext(ctx, "stock adjusted", slog.Int("deltas", len(req.Deltas)))

	respondJSON(h.logger, w, http.StatusOK, map[string]string{"status": "applied"})
}

// parseIDList parses a comma-separated id list
func parseIDList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Request/Response DTOs

// LoadArticlesRequest represents the request body for bulk loading articles
type LoadArticlesRequest struct {
	Articles []ArticleDTO `json:"articles"`
}

// ArticleDTO mirrors a ledger article on the wire
type ArticleDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

// Validate validates every article in the request
func (r *LoadArticlesRequest) Validate() error {
	if len(r.Articles) == 0 {
		return fmt.Errorf("at least one article is required")
	}
	for _, a := range r.Articles {
		article := domain.Article{ID: a.ID, Name: a.Name, Stock: a.Stock}
		if err := article.Validate(); err != nil {
			return fmt.Errorf("article %d: %w", a.ID, err)
		}
	}
	return nil
}

// ToDomain converts the request to domain articles
func (r *LoadArticlesRequest) ToDomain() []domain.Article {
	articles := make([]domain.Article, 0, len(r.Articles))
	for _, a := range r.Articles {
		articles = append(articles, domain.Article{
			ID:    a.ID,
			Name:  a.Name,
			Stock: a.Stock,
		})
	}
	return articles
}

// AdjustStockRequest represents the request body for stock adjustments
type AdjustStockRequest struct {
	Deltas []DeltaDTO `json:"deltas"`
}

// DeltaDTO is a signed stock movement for one article
type DeltaDTO struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount"`
}

// ToDomain converts the request to domain deltas
func (r *AdjustStockRequest) ToDomain() []domain.ArticleAmount {
	deltas := make([]domain.ArticleAmount, 0, len(r.Deltas))
	for _, d := range r.Deltas {
		deltas = append(deltas, domain.ArticleAmount{ID: d.ID, Amount: d.Amount})
	}
	return deltas
}
