package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/trade-logger/internal/database"
	"github.com/yourusername/trade-logger/internal/models"
)

// PostgresSessionRepository implements SessionRepository for PostgreSQL
type PostgresSessionRepository struct {
	db *database.DB
}

// NewPostgresSessionRepository creates a new session repository
func NewPostgresSessionRepository(db *database.DB) SessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Create inserts a new login session
func (r *PostgresSessionRepository) Create(ctx context.Context, session *models.Session) error {
	err := r.db.GetPool().QueryRow(ctx, `
		INSERT INTO sessions (token, user_id, ip_address, user_agent)
		VALUES ($1, $2, $3, $4)
		RETURNING last_activity, created_at
	`,
		session.Token, session.UserID, session.IPAddress, session.UserAgent,
	).Scan(&session.LastActivity, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByToken retrieves a session by its token
func (r *PostgresSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.db.GetPool().QueryRow(ctx, `
		SELECT token, user_id, ip_address, user_agent, last_activity, created_at
		FROM sessions WHERE token = $1
	`, token).Scan(&s.Token, &s.UserID, &s.IPAddress, &s.UserAgent, &s.LastActivity, &s.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// Touch refreshes the session's last activity timestamp
func (r *PostgresSessionRepository) Touch(ctx context.Context, token string) error {
	_, err := r.db.GetPool().Exec(ctx,
		"UPDATE sessions SET last_activity = NOW() WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// Delete removes a session
func (r *PostgresSessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.GetPool().Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser removes every session belonging to a user
func (r *PostgresSessionRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.GetPool().Exec(ctx, "DELETE FROM sessions WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions idle longer than maxAge and reports how many
func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	tag, err := r.db.GetPool().Exec(ctx,
		"DELETE FROM sessions WHERE last_activity < NOW() - $1::interval",
		fmt.Sprintf("%d seconds", int(maxAge.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of live sessions
func (r *PostgresSessionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM sessions").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
