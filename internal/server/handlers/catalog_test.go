package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockmart/lockmart/internal/models"
	"github.com/lockmart/lockmart/internal/server/storage"
	"github.com/lockmart/lockmart/pkg/api"
)

// fakeProductStorage is an in-memory storage.ProductStorage
type fakeProductStorage struct {
	products map[string]*models.Product
}

func newFakeProductStorage() *fakeProductStorage {
	return &fakeProductStorage{products: make(map[string]*models.Product)}
}

func (f *fakeProductStorage) CreateProduct(ctx context.Context, product *models.Product) error {
	clone := *product
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeProductStorage) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProductStorage) ListProducts(ctx context.Context, category string) ([]*models.Product, error) {
	out := make([]*models.Product, 0, len(f.products))
	for _, p := range f.products {
		if category != "" && p.Category != category {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeProductStorage) UpdateProduct(ctx context.Context, product *models.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return storage.ErrProductNotFound
	}
	clone := *product
	f.products[product.ID] = &clone
	return nil
}

func (f *fakeProductStorage) DeleteProduct(ctx context.Context, productID string) error {
	if _, ok := f.products[productID]; !ok {
		return storage.ErrProductNotFound
	}
	delete(f.products, productID)
	return nil
}

func newProductHandler(store *fakeProductStorage) *ProductHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProductHandler(logger, store)
}

func seedProduct(store *fakeProductStorage, id, name, category string, price int64) {
	_ = store.CreateProduct(context.Background(), &models.Product{
		ID:        id,
		Name:      name,
		Category:  category,
		Price:     price,
		Stock:     5,
		CreatedAt: time.Now(),
	})
}

func TestProductHandler_List(t *testing.T) {
	store := newFakeProductStorage()
	seedProduct(store, "p1", "Smart Lock Pro", "locks", 499)
	seedProduct(store, "p2", "Door Sensor", "sensors", 99)
	h := newProductHandler(store)

	t.Run("lists everything without a filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp []api.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
	})

	t.Run("filters by category", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products?category=locks", nil)
		w := httptest.NewRecorder()
		h.List(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp []api.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Smart Lock Pro", resp[0].Name)
	})
}

func TestProductHandler_Get(t *testing.T) {
	store := newFakeProductStorage()
	seedProduct(store, "p1", "Smart Lock Pro", "locks", 499)
	h := newProductHandler(store)

	t.Run("returns the product", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/p1", nil)
		req.SetPathValue("id", "p1")
		w := httptest.NewRecorder()
		h.Get(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp api.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Smart Lock Pro", resp.Name)
		assert.Equal(t, int64(499), resp.Price)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		h.Get(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("creates a product", func(t *testing.T) {
		store := newFakeProductStorage()
		h := newProductHandler(store)

		body, _ := json.Marshal(api.ProductRequest{
			Name:     "Smart Lock Pro",
			Brand:    "LockMart",
			Category: "locks",
			Price:    499,
			Stock:    10,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewReader(body))
		w := httptest.NewRecorder()
		h.Create(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp api.Product
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ID)
		assert.Equal(t, "Smart Lock Pro", resp.Name)

		stored, err := store.GetProduct(context.Background(), resp.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, stored.Stock)
	})

	t.Run("rejects invalid products", func(t *testing.T) {
		h := newProductHandler(newFakeProductStorage())

		invalid := []api.ProductRequest{
			{Name: "", Price: 10},
			{Name: "Lock", Price: -1},
			{Name: "Lock", Price: 10, Stock: -3},
		}

		for _, p := range invalid {
			body, _ := json.Marshal(p)
			req := httptest.NewRequest(http.MethodPost, "/api/admin/products", bytes.NewReader(body))
			w := httptest.NewRecorder()
			h.Create(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, "%+v should be rejected", p)
		}
	})
}

func TestProductHandler_Update(t *testing.T) {
	store := newFakeProductStorage()
	seedProduct(store, "p1", "Smart Lock Pro", "locks", 499)
	h := newProductHandler(store)

	t.Run("updates an existing product", func(t *testing.T) {
		body, _ := json.Marshal(api.ProductRequest{Name: "Smart Lock Pro v2", Category: "locks", Price: 549, Stock: 3})
		req := httptest.NewRequest(http.MethodPut, "/api/admin/products/p1", bytes.NewReader(body))
		req.SetPathValue("id", "p1")
		w := httptest.NewRecorder()
		h.Update(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		stored, err := store.GetProduct(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, "Smart Lock Pro v2", stored.Name)
		assert.Equal(t, int64(549), stored.Price)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		body, _ := json.Marshal(api.ProductRequest{Name: "Ghost", Price: 1})
		req := httptest.NewRequest(http.MethodPut, "/api/admin/products/missing", bytes.NewReader(body))
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		h.Update(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductHandler_Delete(t *testing.T) {
	store := newFakeProductStorage()
	seedProduct(store, "p1", "Smart Lock Pro", "locks", 499)
	h := newProductHandler(store)

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/p1", nil)
	req.SetPathValue("id", "p1")
	w := httptest.NewRecorder()
	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err := store.GetProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
}
