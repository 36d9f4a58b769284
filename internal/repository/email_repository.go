package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/trade-logger/internal/database"
	"github.com/yourusername/trade-logger/internal/models"
)

// PostgresEmailRepository implements EmailRepository for PostgreSQL
type PostgresEmailRepository struct {
	db *database.DB
}

// NewPostgresEmailRepository creates a new email queue repository
func NewPostgresEmailRepository(db *database.DB) EmailRepository {
	return &PostgresEmailRepository{db: db}
}

// Pending retrieves the oldest queued messages awaiting dispatch
func (r *PostgresEmailRepository) Pending(ctx context.Context, limit int) ([]*models.EmailMessage, error) {
	rows, err := r.db.GetPool().Query(ctx, `
		SELECT id, to_email, subject, body, status, attempts, last_error, created_at, sent_at
		FROM email_queue
		WHERE status = 'pending'
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending emails: %w", err)
	}
	defer rows.Close()

	var messages []*models.EmailMessage
	for rows.Next() {
		var (
			m      models.EmailMessage
			status string
		)
		err := rows.Scan(&m.ID, &m.ToEmail, &m.Subject, &m.Body, &status, &m.Attempts,
			&m.LastError, &m.CreatedAt, &m.SentAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		m.Status = models.EmailStatus(status)
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read pending emails: %w", err)
	}

	return messages, nil
}

// MarkSent records a successful dispatch
func (r *PostgresEmailRepository) MarkSent(ctx context.Context, id int64) error {
	_, err := r.db.GetPool().Exec(ctx,
		"UPDATE email_queue SET status = 'sent', attempts = attempts + 1, sent_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark email sent: %w", err)
	}
	return nil
}

// MarkFailed records a failed dispatch attempt with its reason
func (r *PostgresEmailRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	_, err := r.db.GetPool().Exec(ctx,
		"UPDATE email_queue SET status = 'failed', attempts = attempts + 1, last_error = $1 WHERE id = $2",
		reason, id)
	if err != nil {
		return fmt.Errorf("failed to mark email failed: %w", err)
	}
	return nil
}

// CountPending returns the number of messages waiting in the queue
func (r *PostgresEmailRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx,
		"SELECT COUNT(*) FROM email_queue WHERE status = 'pending'").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending emails: %w", err)
	}
	return count, nil
}
