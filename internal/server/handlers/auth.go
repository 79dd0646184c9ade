package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lockmart/lockmart/internal/models"
	"github.com/lockmart/lockmart/internal/password"
	"github.com/lockmart/lockmart/internal/server/mailer"
	"github.com/lockmart/lockmart/internal/server/storage"
	"github.com/lockmart/lockmart/internal/validation"
	"github.com/lockmart/lockmart/pkg/api"
)

const resetTokenTTL = time.Hour

// AuthHandler handles authentication requests
type AuthHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
	mailer      mailer.Sender
	jwtConfig   JWTConfig
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(logger *slog.Logger, userStorage storage.UserStorage, mail mailer.Sender, jwtConfig JWTConfig) *AuthHandler {
	return &AuthHandler{
		logger:      logger,
		userStorage: userStorage,
		mailer:      mail,
		jwtConfig:   jwtConfig,
	}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)

	if err := h.validateRegistration(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid registration", slog.String("email", req.Email), slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		IsUser:       true,
		LastLogin:    &now,
		IsOnline:     true,
		CreatedAt:    now,
	}

	if err := h.userStorage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			h.logger.WarnContext(ctx, "email already registered", slog.String("email", req.Email))
			sendError(h.logger, w, "email already registered", http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, err := GenerateAccessToken(h.jwtConfig, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user registered",
		slog.String("email", req.Email),
		slog.String("user_id", user.ID))

	sendJSON(h.logger, w, api.AuthResponse{User: toAPIUser(user), Token: token}, http.StatusCreated)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		sendError(h.logger, w, "email and password are required", http.StatusBadRequest)
		return
	}

	// Unknown email and wrong password answer identically
	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "login failed: user not found", slog.String("email", req.Email))
			sendError(h.logger, w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if user.PasswordHash == "" || !password.Compare(user.PasswordHash, req.Password) {
		h.logger.WarnContext(ctx, "login failed: password mismatch", slog.String("email", req.Email))
		sendError(h.logger, w, "invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := GenerateAccessToken(h.jwtConfig, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	if err := h.userStorage.UpdateLoginState(ctx, user.ID, &now, true); err != nil {
		// Not critical, log and continue
		h.logger.WarnContext(ctx, "failed to update login state", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.String("email", req.Email),
		slog.String("user_id", user.ID))

	sendJSON(h.logger, w, api.AuthResponse{User: toAPIUser(user), Token: token}, http.StatusOK)
}

// Refresh handles POST /api/auth/refresh.
// The old token rides in the Authorization header; any authentic token is
// accepted regardless of expiry (tokens are stateless, there is no
// revocation list), so only undecodable tokens are rejected.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenString, ok := bearerToken(r)
	if !ok {
		sendError(h.logger, w, "Authorization header is required", http.StatusUnauthorized)
		return
	}

	claims, err := ParseForRefresh(h.jwtConfig, tokenString)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh failed: invalid token", slog.Any("error", err))
		sendError(h.logger, w, "invalid token", http.StatusUnauthorized)
		return
	}

	// Re-read the user so a refreshed token carries current role flags
	user, err := h.userStorage.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "refresh failed: user gone", slog.String("user_id", claims.UserID))
			sendError(h.logger, w, "invalid token", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	token, err := GenerateAccessToken(h.jwtConfig, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "token refreshed", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, api.RefreshResponse{Token: token}, http.StatusOK)
}

// Logout handles POST /api/auth/logout.
// The online-flag update is best effort; clients clear their local
// session regardless, so the response is always success-shaped.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if tokenString, ok := bearerToken(r); ok {
		if claims, err := ValidateAccessToken(h.jwtConfig, tokenString); err == nil {
			if err := h.userStorage.UpdateLoginState(ctx, claims.UserID, nil, false); err != nil {
				h.logger.WarnContext(ctx, "failed to mark user offline", slog.Any("error", err))
			} else {
				h.logger.InfoContext(ctx, "user logged out", slog.String("user_id", claims.UserID))
			}
		}
	}

	sendJSON(h.logger, w, api.LogoutResponse{Message: "logged out"}, http.StatusOK)
}

// RequestPasswordReset handles POST /api/auth/password-reset.
// Responds 200 whether or not the email exists, to avoid account
// enumeration.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := api.LogoutResponse{Message: "if the account exists, a reset email has been sent"}

	user, err := h.userStorage.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		}
		sendJSON(h.logger, w, resp, http.StatusOK)
		return
	}

	token := uuid.New().String()
	expires := time.Now().Add(resetTokenTTL)

	if err := h.userStorage.SetResetToken(ctx, user.ID, hashResetToken(token), &expires); err != nil {
		h.logger.ErrorContext(ctx, "failed to store reset token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.mailer.SendPasswordReset(user.Email, token); err != nil {
		// Token is already stored; the user can retry the email later
		h.logger.WarnContext(ctx, "failed to send reset email", slog.Any("error", err))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// ConfirmPasswordReset handles POST /api/auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Token == "" {
		sendError(h.logger, w, "token is required", http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByResetHash(ctx, hashResetToken(req.Token))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "invalid or expired reset token", http.StatusBadRequest)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user by reset token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if user.ResetExpires == nil || time.Now().After(*user.ResetExpires) {
		sendError(h.logger, w, "invalid or expired reset token", http.StatusBadRequest)
		return
	}

	passwordHash, err := password.Hash(req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		h.logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.userStorage.SetResetToken(ctx, user.ID, "", nil); err != nil {
		h.logger.WarnContext(ctx, "failed to clear reset token", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "password reset completed", slog.String("user_id", user.ID))

	sendJSON(h.logger, w, api.LogoutResponse{Message: "password updated"}, http.StatusOK)
}

func (h *AuthHandler) validateRegistration(req *api.RegisterRequest) error {
	if err := validation.ValidateName(req.Name); err != nil {
		return err
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return err
	}
	return validation.ValidatePhone(req.Phone)
}

// hashResetToken hashes reset tokens at rest so a leaked database
// cannot be replayed against the confirm endpoint
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
