// internal/handlers/products.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/ammerola/warehouse-be/internal/core/domain"
	"github.com/ammerola/warehouse-be/internal/core/ports"
	"github.com/ammerola/warehouse-be/internal/workers"
)

// ProductsHandler handles product catalog and purchase HTTP requests
type ProductsHandler struct {
	service   ports.ProductService
	tasks     *asynq.Client // nil disables background scans
	threshold int64
	logger    *slog.Logger
}

// NewProductsHandler creates a new products handler
func NewProductsHandler(service ports.ProductService, tasks *asynq.Client, threshold int64, logger *slog.Logger) *ProductsHandler {
	return &ProductsHandler{
		service:   service,
		tasks:     tasks,
		threshold: threshold,
		logger:    logger.With(slog.String("handler", "products")),
	}
}

// ListAvailable handles GET /api/v1/products/available
func (h *ProductsHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.service.ListAvailable(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list available products",
			slog.String("error", err.Error()))
		respondError(h.logger, w, http.StatusInternalServerError, "Failed to list available products")
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetProducts handles GET /api/v1/products?names=a,b
func (h *ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	names := parseNameList(r.URL.Query().Get("names"))
	if len(names) == 0 {
		respondError(h.logger, w, http.StatusBadRequest, "At least one product name is required")
		return
	}

	products, err := h.service.FindByNames(ctx, names)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get products",
			slog.String("error", err.Error()))
		respondError(h.logger, w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	respondJSON(h.logger, w, http.StatusOK, map[string]interface{}{"products": products})
}

// LoadProducts handles POST /api/v1/products
func (h *ProductsHandler) LoadProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoadProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	products := req.ToDomain()
	if err := h.service.BulkLoad(ctx, products); err != nil {
		h.logger.ErrorContext(ctx, "failed to load products",
			slog.String("error", err.Error()))
		respondError(h.logger, w, http.StatusInternalServerError, "Failed to load products")
		return
	}

	h.logger.InfoContext(ctx, "products loaded", slog.Int("count", len(products)))

	respondJSON(h.logger, w, http.StatusCreated, map[string]interface{}{"loaded": len(products)})
}

// Purchase handles POST /api/v1/products/purchase
func (h *ProductsHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(h.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	purchased, err := h.service.Purchase(ctx, req.ToDomain())
	if err != nil {
		h.logger.ErrorContext(ctx, "purchase failed",
			slog.String("error", err.Error()))
		respondError(h.logger, w, http.StatusInternalServerError, "Failed to process purchase")
		return
	}

	if !purchased {
		respondJSON(h.logger, w, http.StatusConflict, PurchaseResponse{
			Purchased: false,
			Reason:    "insufficient stock",
		})
		return
	}

	h.enqueueLowStockScan(ctx)

	respondJSON(h.logger, w, http.StatusOK, PurchaseResponse{Purchased: true})
}

// enqueueLowStockScan schedules a background scan after a successful
// purchase. Failures are logged, never surfaced to the buyer.
func (h *ProductsHandler) enqueueLowStockScan(ctx context.Context) {
	if h.tasks == nil {
		return
	}

	task, err := workers.NewLowStockScanTask(h.threshold)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to build low stock scan task",
			slog.String("error", err.Error()))
		return
	}

	if _, err := h.tasks.EnqueueContext(ctx, task, asynq.Queue("low")); err != nil {
		h.logger.WarnContext(ctx, "failed to enqueue low stock scan",
			slog.String("error", err.Error()))
	}
}

// parseNameList parses a comma-separated name list
func parseNameList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Request/Response DTOs

// LoadProductsRequest represents the request body for bulk loading products
type LoadProductsRequest struct {
	Products []ProductDTO `json:"products"`
}

// ProductDTO mirrors a catalog product on the wire
type ProductDTO struct {
	Name     string     `json:"name"`
	Price    int64      `json:"price"`
	Articles []DeltaDTO `json:"articles"`
}

// Validate validates every product in the request
func (r *LoadProductsRequest) Validate() error {
	if len(r.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}
	for i := range r.Products {
		product := r.Products[i].toDomain()
		if err := product.Validate(); err != nil {
			return fmt.Errorf("product %q: %w", r.Products[i].Name, err)
		}
	}
	return nil
}

// ToDomain converts the request to domain products
func (r *LoadProductsRequest) ToDomain() []domain.Product {
	products := make([]domain.Product, 0, len(r.Products))
	for i := range r.Products {
		products = append(products, r.Products[i].toDomain())
	}
	return products
}

func (p *ProductDTO) toDomain() domain.Product {
	bill := make([]domain.ArticleAmount, 0, len(p.Articles))
	for _, a := range p.Articles {
		bill = append(bill, domain.ArticleAmount{ID: a.ID, Amount: a.Amount})
	}
	return domain.Product{Name: p.Name, Price: p.Price, Articles: bill}
}

// PurchaseRequest represents the request body for a purchase
type PurchaseRequest struct {
	Items []PurchaseItemDTO `json:"items"`
}

// PurchaseItemDTO is one product line of a purchase
type PurchaseItemDTO struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// Validate validates the purchase request
func (r *PurchaseRequest) Validate() error {
	for _, item := range r.Items {
		line := domain.ProductAmount{Name: item.Name, Amount: item.Amount}
		if err := line.Validate(); err != nil {
			return fmt.Errorf("item %q: %w", item.Name, err)
		}
	}
	return nil
}

// ToDomain converts the request to domain purchase lines
func (r *PurchaseRequest) ToDomain() []domain.ProductAmount {
	items := make([]domain.ProductAmount, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.ProductAmount{Name: item.Name, Amount: item.Amount})
	}
	return items
}

// PurchaseResponse reports the all-or-nothing purchase outcome
type PurchaseResponse struct {
	Purchased bool   `json:"purchased"`
	Reason    string `json:"reason,omitempty"`
}
