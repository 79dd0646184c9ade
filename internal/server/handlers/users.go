package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lockmart/lockmart/internal/server/storage"
	"github.com/lockmart/lockmart/internal/validation"
	"github.com/lockmart/lockmart/pkg/api"
)

// UserHandler serves profile and admin back-office user management
type UserHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, userStorage storage.UserStorage) *UserHandler {
	return &UserHandler{
		logger:      logger,
		userStorage: userStorage,
	}
}

// Me handles GET /api/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// UpdateMe handles PUT /api/users/me
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateName(req.Name); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePhone(req.Phone); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.userStorage.UpdateProfile(ctx, userID, req.Name, req.Phone); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update profile", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reload user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// List handles GET /api/admin/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.userStorage.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.User, 0, len(users))
	for _, u := range users {
		resp = append(resp, toAPIUser(u))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Get handles GET /api/admin/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.userStorage.GetUserByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// UpdateRoles handles PUT /api/admin/users/{id}/roles.
// Omitted flags keep their current value; admin_until only applies
// together with is_admin=true.
func (h *UserHandler) UpdateRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	var req api.RoleUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	isAdmin := user.IsAdmin
	isBusiness := user.IsBusiness
	adminUntil := user.AdminUntil

	if req.IsAdmin != nil {
		isAdmin = *req.IsAdmin
		adminUntil = nil
	}
	if req.IsBusiness != nil {
		isBusiness = *req.IsBusiness
	}
	if req.AdminUntil != nil && isAdmin {
		adminUntil = req.AdminUntil
	}

	if err := h.userStorage.UpdateRoles(ctx, userID, isAdmin, isBusiness, adminUntil); err != nil {
		h.logger.ErrorContext(ctx, "failed to update roles", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user roles updated",
		slog.String("user_id", userID),
		slog.Bool("is_admin", isAdmin),
		slog.Bool("is_business", isBusiness))

	user, err = h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to reload user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// Delete handles DELETE /api/admin/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	if callerID, _ := UserIDFromContext(ctx); callerID == userID {
		sendError(h.logger, w, "cannot delete your own account", http.StatusBadRequest)
		return
	}

	if err := h.userStorage.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user deleted", slog.String("user_id", userID))

	w.WriteHeader(http.StatusNoContent)
}
