package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lockmart/lockmart/internal/models"
	"github.com/lockmart/lockmart/internal/server/storage"
	"github.com/lockmart/lockmart/pkg/api"
)

// ProductHandler serves the smart-lock catalog
type ProductHandler struct {
	logger         *slog.Logger
	productStorage storage.ProductStorage
}

// NewProductHandler creates a new catalog handler
func NewProductHandler(logger *slog.Logger, productStorage storage.ProductStorage) *ProductHandler {
	return &ProductHandler{
		logger:         logger,
		productStorage: productStorage,
	}
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.productStorage.ListProducts(ctx, r.URL.Query().Get("category"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.Product, 0, len(products))
	for _, p := range products {
		resp = append(resp, toAPIProduct(p))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.productStorage.GetProduct(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			sendError(h.logger, w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPIProduct(product), http.StatusOK)
}

// Create handles POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.decodeProduct(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	product := &models.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Stock:       req.Stock,
		CreatedAt:   time.Now(),
	}

	if err := h.productStorage.CreateProduct(ctx, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to create product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name))

	sendJSON(h.logger, w, toAPIProduct(product), http.StatusCreated)
}

// Update handles PUT /api/admin/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.decodeProduct(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	product := &models.Product{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	if err := h.productStorage.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			sendError(h.logger, w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	updated, err := h.productStorage.GetProduct(ctx, product.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reload product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPIProduct(updated), http.StatusOK)
}

// Delete handles DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.productStorage.DeleteProduct(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, storage.ErrProductNotFound) {
			sendError(h.logger, w, "product not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete product", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) decodeProduct(r *http.Request) (*api.ProductRequest, error) {
	var req api.ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid request body")
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, errors.New("name is required")
	}
	if req.Price < 0 {
		return nil, errors.New("price cannot be negative")
	}
	if req.Stock < 0 {
		return nil, errors.New("stock cannot be negative")
	}

	return &req, nil
}

func toAPIProduct(p *models.Product) api.Product {
	return api.Product{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Category:    p.Category,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}
