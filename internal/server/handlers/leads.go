package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lockmart/lockmart/internal/models"
	"github.com/lockmart/lockmart/internal/server/storage"
	"github.com/lockmart/lockmart/internal/validation"
	"github.com/lockmart/lockmart/pkg/api"
)

// LeadHandler serves the public lead-capture and contact forms,
// plus the admin listings behind them
type LeadHandler struct {
	logger      *slog.Logger
	leadStorage storage.LeadStorage
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(logger *slog.Logger, leadStorage storage.LeadStorage) *LeadHandler {
	return &LeadHandler{
		logger:      logger,
		leadStorage: leadStorage,
	}
}

// CreateLead handles POST /api/leads (public)
func (h *LeadHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)
	if err := validation.ValidateName(req.Name); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePhone(req.Phone); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	lead := &models.Lead{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now(),
	}

	if err := h.leadStorage.CreateLead(ctx, lead); err != nil {
		h.logger.ErrorContext(ctx, "failed to store lead", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "lead captured", slog.String("lead_id", lead.ID))

	sendJSON(h.logger, w, api.LogoutResponse{Message: "thanks, we will be in touch"}, http.StatusCreated)
}

// ListLeads handles GET /api/admin/leads
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	leads, err := h.leadStorage.ListLeads(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list leads", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.Lead, 0, len(leads))
	for _, l := range leads {
		resp = append(resp, api.Lead{
			ID:        l.ID,
			Name:      l.Name,
			Email:     l.Email,
			Phone:     l.Phone,
			CreatedAt: l.CreatedAt,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// CreateMessage handles POST /api/contact (public)
func (h *LeadHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)
	if err := validation.ValidateName(req.Name); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		sendError(h.logger, w, "message body is required", http.StatusBadRequest)
		return
	}

	msg := &models.ContactMessage{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Body:      req.Body,
		CreatedAt: time.Now(),
	}

	if err := h.leadStorage.CreateMessage(ctx, msg); err != nil {
		h.logger.ErrorContext(ctx, "failed to store message", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "contact message stored", slog.String("message_id", msg.ID))

	sendJSON(h.logger, w, api.LogoutResponse{Message: "message received"}, http.StatusCreated)
}

// ListMessages handles GET /api/admin/messages
func (h *LeadHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	messages, err := h.leadStorage.ListMessages(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list messages", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.ContactMessage, 0, len(messages))
	for _, m := range messages {
		resp = append(resp, api.ContactMessage{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Body:      m.Body,
			CreatedAt: m.CreatedAt,
		})
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
