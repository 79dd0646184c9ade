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

// ArticleHandler serves the learning-content pages
type ArticleHandler struct {
	logger         *slog.Logger
	articleStorage storage.ArticleStorage
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(logger *slog.Logger, articleStorage storage.ArticleStorage) *ArticleHandler {
	return &ArticleHandler{
		logger:         logger,
		articleStorage: articleStorage,
	}
}

// List handles GET /api/articles
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	articles, err := h.articleStorage.ListArticles(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list articles", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.Article, 0, len(articles))
	for _, a := range articles {
		resp = append(resp, api.Article{ID: a.ID, Title: a.Title, Body: a.Body, CreatedAt: a.CreatedAt})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get handles GET /api/articles/{id}
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, err := h.articleStorage.GetArticle(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrArticleNotFound) {
			sendError(h.logger, w, "article not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get article", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.Article{ID: article.ID, Title: article.Title, Body: article.Body, CreatedAt: article.CreatedAt}, http.StatusOK)
}

// Create handles POST /api/admin/articles
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Body) == "" {
		sendError(h.logger, w, "title and body are required", http.StatusBadRequest)
		return
	}

	article := &models.Article{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}

	if err := h.articleStorage.CreateArticle(ctx, article); err != nil {
		h.logger.ErrorContext(ctx, "failed to create article", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, api.Article{ID: article.ID, Title: article.Title, Body: article.Body, CreatedAt: article.CreatedAt}, http.StatusCreated)
}
