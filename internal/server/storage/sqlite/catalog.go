package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lockmart/lockmart/internal/models"
	"github.com/lockmart/lockmart/internal/server/storage"
)

// CreateProduct inserts a new catalog entry
func (s *Storage) CreateProduct(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, brand, category, description, image_url, price, stock, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Brand,
		product.Category,
		product.Description,
		product.ImageURL,
		product.Price,
		product.Stock,
		product.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

// GetProduct retrieves a product by ID
func (s *Storage) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	query := `
		SELECT id, name, brand, category, description, image_url, price, stock, created_at
		FROM products
		WHERE id = ?
	`

	product := &models.Product{}
	err := s.db.QueryRowContext(ctx, query, productID).Scan(
		&product.ID,
		&product.Name,
		&product.Brand,
		&product.Category,
		&product.Description,
		&product.ImageURL,
		&product.Price,
		&product.Stock,
		&product.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// ListProducts returns the catalog, newest first, optionally filtered by category
func (s *Storage) ListProducts(ctx context.Context, category string) ([]*models.Product, error) {
	query := `
		SELECT id, name, brand, category, description, image_url, price, stock, created_at
		FROM products
	`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Brand,
			&product.Category,
			&product.Description,
			&product.ImageURL,
			&product.Price,
			&product.Stock,
			&product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// UpdateProduct replaces all editable fields
func (s *Storage) UpdateProduct(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = ?, brand = ?, category = ?, description = ?, image_url = ?, price = ?, stock = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		product.Name,
		product.Brand,
		product.Category,
		product.Description,
		product.ImageURL,
		product.Price,
		product.Stock,
		product.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}

// DeleteProduct removes a catalog entry
func (s *Storage) DeleteProduct(ctx context.Context, productID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrProductNotFound
	}

	return nil
}

// CreateLead stores a captured sales lead
func (s *Storage) CreateLead(ctx context.Context, lead *models.Lead) error {
	query := `INSERT INTO leads (id, name, email, phone, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, lead.ID, lead.Name, lead.Email, lead.Phone, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lead: %w", err)
	}

	return nil
}

// ListLeads returns captured leads, newest first
func (s *Storage) ListLeads(ctx context.Context) ([]*models.Lead, error) {
	query := `SELECT id, name, email, phone, created_at FROM leads ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []*models.Lead
	for rows.Next() {
		lead := &models.Lead{}
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}

	return leads, nil
}

// CreateMessage stores a customer contact message
func (s *Storage) CreateMessage(ctx context.Context, msg *models.ContactMessage) error {
	query := `INSERT INTO messages (id, name, email, subject, body, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, msg.ID, msg.Name, msg.Email, msg.Subject, msg.Body, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// ListMessages returns customer messages, newest first
func (s *Storage) ListMessages(ctx context.Context) ([]*models.ContactMessage, error) {
	query := `SELECT id, name, email, subject, body, created_at FROM messages ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ContactMessage
	for rows.Next() {
		msg := &models.ContactMessage{}
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// CreateArticle inserts a new learning-content entry
func (s *Storage) CreateArticle(ctx context.Context, article *models.Article) error {
	query := `INSERT INTO articles (id, title, body, created_at) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, article.ID, article.Title, article.Body, article.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// GetArticle retrieves an article by ID
func (s *Storage) GetArticle(ctx context.Context, articleID string) (*models.Article, error) {
	query := `SELECT id, title, body, created_at FROM articles WHERE id = ?`

	article := &models.Article{}
	err := s.db.QueryRowContext(ctx, query, articleID).Scan(
		&article.ID,
		&article.Title,
		&article.Body,
		&article.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

// ListArticles returns articles, newest first
func (s *Storage) ListArticles(ctx context.Context) ([]*models.Article, error) {
	query := `SELECT id, title, body, created_at FROM articles ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []*models.Article
	for rows.Next() {
		article := &models.Article{}
		if err := rows.Scan(&article.ID, &article.Title, &article.Body, &article.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}
