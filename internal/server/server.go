package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/lockmart/lockmart/internal/server/config"
	"github.com/lockmart/lockmart/internal/server/handlers"
	"github.com/lockmart/lockmart/internal/server/mailer"
	"github.com/lockmart/lockmart/internal/server/middleware"
	"github.com/lockmart/lockmart/internal/server/storage/sqlite"
)

const googleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Server owns the HTTP listener and the storage it serves from
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	storage    *sqlite.Storage
}

// New builds the full server: storage, handlers, routes and middleware
func New(ctx context.Context, logger *slog.Logger, cfg *config.Config, version string) (*Server, error) {
	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	jwtConfig := handlers.JWTConfig{
		Secret:         []byte(cfg.JWTSecret),
		AccessTokenTTL: cfg.AccessTokenTTL,
		Issuer:         cfg.JWTIssuer,
	}

	var mail mailer.Sender
	if cfg.MailEnabled() {
		mail = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.ResetBaseURL)
	} else {
		mail = &mailer.Disabled{Logger: logger}
	}

	authHandler := handlers.NewAuthHandler(logger, store, mail, jwtConfig)
	userHandler := handlers.NewUserHandler(logger, store)
	productHandler := handlers.NewProductHandler(logger, store)
	leadHandler := handlers.NewLeadHandler(logger, store)
	articleHandler := handlers.NewArticleHandler(logger, store)
	healthHandler := handlers.NewHealthHandler(logger, version)

	requireAuth := middleware.AuthMiddleware(logger, jwtConfig)
	requireAdmin := func(h http.Handler) http.Handler {
		return requireAuth(middleware.AdminMiddleware(logger, store)(h))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", healthHandler.Health)

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/auth/password-reset", authHandler.RequestPasswordReset)
	mux.HandleFunc("POST /api/auth/password-reset/confirm", authHandler.ConfirmPasswordReset)
	// Logout is deliberately unauthenticated: the token is often already
	// expired when the client signs out, and the response must stay
	// success-shaped either way. The handler validates the bearer token
	// itself, best effort.
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)

	if cfg.OAuthEnabled() {
		oauthHandler := handlers.NewOAuthHandler(logger, store, jwtConfig, &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}, googleUserinfoURL, cfg.OAuthAllowedHosts)

		mux.HandleFunc("GET /api/auth/google", oauthHandler.Start)
		mux.HandleFunc("GET /api/auth/google/callback", oauthHandler.Callback)
	} else {
		logger.Warn("google sign-in disabled: client credentials not configured")
	}

	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.HandleFunc("GET /api/products/{id}", productHandler.Get)
	mux.HandleFunc("GET /api/articles", articleHandler.List)
	mux.HandleFunc("GET /api/articles/{id}", articleHandler.Get)
	mux.HandleFunc("POST /api/leads", leadHandler.CreateLead)
	mux.HandleFunc("POST /api/contact", leadHandler.CreateMessage)

	mux.Handle("GET /api/users/me", requireAuth(http.HandlerFunc(userHandler.Me)))
	mux.Handle("PUT /api/users/me", requireAuth(http.HandlerFunc(userHandler.UpdateMe)))

	mux.Handle("GET /api/admin/users", requireAdmin(http.HandlerFunc(userHandler.List)))
	mux.Handle("GET /api/admin/users/{id}", requireAdmin(http.HandlerFunc(userHandler.Get)))
	mux.Handle("PUT /api/admin/users/{id}/roles", requireAdmin(http.HandlerFunc(userHandler.UpdateRoles)))
	mux.Handle("DELETE /api/admin/users/{id}", requireAdmin(http.HandlerFunc(userHandler.Delete)))

	mux.Handle("POST /api/admin/products", requireAdmin(http.HandlerFunc(productHandler.Create)))
	mux.Handle("PUT /api/admin/products/{id}", requireAdmin(http.HandlerFunc(productHandler.Update)))
	mux.Handle("DELETE /api/admin/products/{id}", requireAdmin(http.HandlerFunc(productHandler.Delete)))

	mux.Handle("GET /api/admin/leads", requireAdmin(http.HandlerFunc(leadHandler.ListLeads)))
	mux.Handle("GET /api/admin/messages", requireAdmin(http.HandlerFunc(leadHandler.ListMessages)))
	mux.Handle("POST /api/admin/articles", requireAdmin(http.HandlerFunc(articleHandler.Create)))

	// Tighter limits on the credential endpoints; everything else
	// shares the default bucket.
	limits := []middleware.PathRateLimit{
		{Path: "/api/auth/login", Rate: 10, Window: time.Minute},
		{Path: "/api/auth/register", Rate: 5, Window: time.Minute},
		{Path: "/api/auth/password-reset", Rate: 3, Window: time.Minute},
	}

	var handler http.Handler = mux
	handler = middleware.RateLimitByPathMiddleware(limits, 120, time.Minute, logger)(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/api/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		logger:     logger,
		httpServer: httpServer,
		storage:    store,
	}, nil
}

// Start runs the HTTP listener until Shutdown or failure
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and closes storage
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)

	if closeErr := s.storage.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	return err
}
