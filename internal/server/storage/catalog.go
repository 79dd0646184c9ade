package storage

import (
	"context"

	"github.com/lockmart/lockmart/internal/models"
)

// ProductStorage defines interface for catalog persistence
type ProductStorage interface {
	// CreateProduct inserts a new catalog entry
	CreateProduct(ctx context.Context, product *models.Product) error

	// GetProduct retrieves a product by ID.
	// Returns ErrProductNotFound on miss.
	GetProduct(ctx context.Context, productID string) (*models.Product, error)

	// ListProducts returns the catalog, newest first.
	// category filters when non-empty.
	ListProducts(ctx context.Context, category string) ([]*models.Product, error)

	// UpdateProduct replaces all editable fields.
	// Returns ErrProductNotFound on miss.
	UpdateProduct(ctx context.Context, product *models.Product) error

	// DeleteProduct removes a catalog entry.
	// Returns ErrProductNotFound on miss.
	DeleteProduct(ctx context.Context, productID string) error
}

// LeadStorage defines interface for lead-capture and contact messages
type LeadStorage interface {
	// CreateLead stores a captured sales lead
	CreateLead(ctx context.Context, lead *models.Lead) error

	// ListLeads returns captured leads, newest first
	ListLeads(ctx context.Context) ([]*models.Lead, error)

	// CreateMessage stores a customer contact message
	CreateMessage(ctx context.Context, msg *models.ContactMessage) error

	// ListMessages returns customer messages, newest first
	ListMessages(ctx context.Context) ([]*models.ContactMessage, error)
}

// ArticleStorage defines interface for learning content
type ArticleStorage interface {
	// CreateArticle inserts a new article
	CreateArticle(ctx context.Context, article *models.Article) error

	// GetArticle retrieves an article by ID.
	// Returns ErrArticleNotFound on miss.
	GetArticle(ctx context.Context, articleID string) (*models.Article, error)

	// ListArticles returns articles, newest first
	ListArticles(ctx context.Context) ([]*models.Article, error)
}
