package service

import (
	"context"
	"fmt"

	"github.com/yourusername/trade-logger/internal/database"
	"github.com/yourusername/trade-logger/internal/logger"
	"github.com/yourusername/trade-logger/internal/metrics"
	"github.com/yourusername/trade-logger/internal/models"
	"github.com/yourusername/trade-logger/internal/repository"
)

// AdminService implements administrator operations: user oversight and
// system health.
type AdminService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	emails   repository.EmailRepository
	db       *database.DB
	audit    *logger.AuditLogger
}

// NewAdminService creates a new admin service.
func NewAdminService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	emails repository.EmailRepository,
	db *database.DB,
	audit *logger.AuditLogger,
) *AdminService {
	return &AdminService{
		users:    users,
		sessions: sessions,
		emails:   emails,
		db:       db,
		audit:    audit,
	}
}

// ListUsers returns every account with its trade and strategy counts.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetStrategyLimit changes a user's strategy cap. Lowering the cap below the
// user's current strategy count is allowed; existing strategies survive and
// only new creations are blocked.
func (s *AdminService) SetStrategyLimit(ctx context.Context, adminID, userID int64, limit int) error {
	if limit < 0 {
		return models.NewValidationError("Strategy limit cannot be negative")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.users.UpdateStrategyLimit(ctx, userID, limit); err != nil {
		return &models.PersistenceError{Op: "update strategy limit", Err: err}
	}

	s.audit.LogStrategyLimitChange(adminID, userID, user.StrategyLimit, limit)
	return nil
}

// SystemHealth is the admin-facing snapshot of backend state.
type SystemHealth struct {
	Database       string `json:"database"`
	PendingEmails  int    `json:"pending_emails"`
	ActiveSessions int    `json:"active_sessions"`
}

// Health reports database reachability, queue depth and live session count.
func (s *AdminService) Health(ctx context.Context) *SystemHealth {
	health := &SystemHealth{Database: "ok"}

	if err := s.db.HealthCheck(ctx); err != nil {
		health.Database = "unreachable"
	}

	if pending, err := s.emails.CountPending(ctx); err == nil {
		health.PendingEmails = pending
		metrics.PendingEmails.Set(float64(pending))
	}

	if count, err := s.sessions.Count(ctx); err == nil {
		health.ActiveSessions = count
	}

	return health
}
