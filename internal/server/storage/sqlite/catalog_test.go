package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockmart/lockmart/internal/models"
	"github.com/lockmart/lockmart/internal/server/storage"
)

func newTestProduct(name, category string) *models.Product {
	return &models.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Brand:     "Guardian",
		Category:  category,
		Price:     49900,
		Stock:     10,
		CreatedAt: time.Now().UTC(),
	}
}

func TestStorage_ProductCRUD(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	product := newTestProduct("Deadbolt Pro", "deadbolt")
	require.NoError(t, s.CreateProduct(ctx, product))

	got, err := s.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deadbolt Pro", got.Name)
	assert.Equal(t, int64(49900), got.Price)

	got.Price = 39900
	got.Stock = 5
	require.NoError(t, s.UpdateProduct(ctx, got))

	got, err = s.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(39900), got.Price)
	assert.Equal(t, 5, got.Stock)

	require.NoError(t, s.DeleteProduct(ctx, product.ID))

	_, err = s.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
}

func TestStorage_ListProducts_CategoryFilter(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.CreateProduct(ctx, newTestProduct("Deadbolt Pro", "deadbolt")))
	require.NoError(t, s.CreateProduct(ctx, newTestProduct("Keypad One", "keypad")))
	require.NoError(t, s.CreateProduct(ctx, newTestProduct("Keypad Two", "keypad")))

	all, err := s.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	keypads, err := s.ListProducts(ctx, "keypad")
	require.NoError(t, err)
	assert.Len(t, keypads, 2)
}

func TestStorage_Leads(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	lead := &models.Lead{
		ID:        uuid.New().String(),
		Name:      "Interested Buyer",
		Email:     "lead@example.com",
		Phone:     "0521234567",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateLead(ctx, lead))

	leads, err := s.ListLeads(ctx)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "lead@example.com", leads[0].Email)
}

func TestStorage_Messages(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	msg := &models.ContactMessage{
		ID:        uuid.New().String(),
		Name:      "Customer",
		Email:     "c@example.com",
		Subject:   "Install question",
		Body:      "Does the Deadbolt Pro fit a 60mm backset?",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateMessage(ctx, msg))

	messages, err := s.ListMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Install question", messages[0].Subject)
}

func TestStorage_Articles(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	article := &models.Article{
		ID:        uuid.New().String(),
		Title:     "Choosing a smart lock",
		Body:      "Start from the door profile...",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateArticle(ctx, article))

	got, err := s.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.Title, got.Title)

	list, err := s.ListArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = s.GetArticle(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrArticleNotFound)
}
