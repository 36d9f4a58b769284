// Package server exposes the trade journal as a JSON HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-logger/internal/config"
	"github.com/yourusername/trade-logger/internal/health"
	"github.com/yourusername/trade-logger/internal/metrics"
	"github.com/yourusername/trade-logger/internal/service"
	"github.com/yourusername/trade-logger/internal/storage"
)

// Server wires the HTTP routes to the application services.
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	auth       *service.AuthService
	trades     *service.TradeService
	strategies *service.StrategyService
	admin      *service.AdminService
	images     *storage.ImageStore
	checker    *health.Checker
	limiter    *ipLimiter
	logger     *logrus.Logger
}

// New creates the HTTP server with all routes registered.
func New(
	cfg *config.Config,
	auth *service.AuthService,
	trades *service.TradeService,
	strategies *service.StrategyService,
	admin *service.AdminService,
	images *storage.ImageStore,
	checker *health.Checker,
	log *logrus.Logger,
) *Server {
	s := &Server{
		cfg:        cfg,
		auth:       auth,
		trades:     trades,
		strategies: strategies,
		admin:      admin,
		images:     images,
		checker:    checker,
		limiter:    newIPLimiter(cfg.Limits.RateLimitRPS, cfg.Limits.RateLimitBurst),
		logger:     log,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress(),
		Handler:      s.routes(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSec) * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Probes and metrics sit outside auth
	mux.HandleFunc("GET /live", s.checker.HandleLive)
	mux.HandleFunc("GET /ready", s.checker.HandleReady)
	if s.cfg.Metrics.Enabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("POST /api/auth/verify", s.handleVerifyEmail)
	mux.HandleFunc("POST /api/auth/forgot-password", s.handleForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", s.handleResetPassword)
	mux.HandleFunc("GET /api/auth/me", s.requireAuth(s.handleMe))

	// Trades
	mux.HandleFunc("GET /api/trades", s.requireAuth(s.handleListTrades))
	mux.HandleFunc("POST /api/trades", s.requireAuth(s.handleCreateTrade))
	mux.HandleFunc("GET /api/trades/{id}", s.requireAuth(s.handleGetTrade))
	mux.HandleFunc("PUT /api/trades/{id}", s.requireAuth(s.handleUpdateTrade))
	mux.HandleFunc("DELETE /api/trades/{id}", s.requireAuth(s.handleDeleteTrade))
	mux.HandleFunc("POST /api/trades/{id}/screenshot", s.requireAuth(s.handleUploadScreenshot))
	mux.HandleFunc("GET /api/instruments", s.requireAuth(s.handleListInstruments))

	// Strategies
	mux.HandleFunc("GET /api/strategies", s.requireAuth(s.handleListStrategies))
	mux.HandleFunc("POST /api/strategies", s.requireAuth(s.handleCreateStrategy))
	mux.HandleFunc("GET /api/strategies/{id}", s.requireAuth(s.handleGetStrategy))
	mux.HandleFunc("PUT /api/strategies/{id}", s.requireAuth(s.handleUpdateStrategy))
	mux.HandleFunc("DELETE /api/strategies/{id}", s.requireAuth(s.handleDeleteStrategy))
	mux.HandleFunc("GET /api/strategies/{id}/stats", s.requireAuth(s.handleStrategyStats))
	mux.HandleFunc("POST /api/strategies/{id}/chart", s.requireAuth(s.handleUploadChart))

	// Statistics and export
	mux.HandleFunc("GET /api/stats", s.requireAuth(s.handleStats))
	mux.HandleFunc("GET /api/analytics", s.requireAuth(s.handleAnalytics))
	mux.HandleFunc("GET /api/export/csv", s.requireAuth(s.handleExportCSV))

	// Account
	mux.HandleFunc("PUT /api/account/size", s.requireAuth(s.handleUpdateAccountSize))

	// Uploaded images
	mux.HandleFunc("GET /api/uploads/{subdir}/{file}", s.requireAuth(s.handleServeUpload))

	// Admin
	mux.HandleFunc("GET /api/admin/users", s.requireAdmin(s.handleAdminListUsers))
	mux.HandleFunc("PUT /api/admin/users/{id}/strategy-limit", s.requireAdmin(s.handleAdminSetStrategyLimit))
	mux.HandleFunc("GET /api/admin/health", s.requireAdmin(s.handleAdminHealth))

	return s.logRequests(s.rateLimit(mux))
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.checker.SetReady(true)
	s.logger.WithField("address", s.httpServer.Addr).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.checker.SetReady(false)
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
