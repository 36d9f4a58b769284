package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/trade-logger/internal/database"
	"github.com/yourusername/trade-logger/internal/models"
)

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *database.DB
}

// NewPostgresUserRepository creates a new user repository
func NewPostgresUserRepository(db *database.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, email_verified, is_admin, strategy_limit,
	       account_size, verification_token, reset_token, reset_token_expires, created_at, updated_at`

func scanUser(s rowScanner) (*models.User, error) {
	var u models.User
	err := s.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.EmailVerified, &u.IsAdmin,
		&u.StrategyLimit, &u.AccountSize, &u.VerificationToken, &u.ResetToken,
		&u.ResetTokenExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func enqueueEmail(ctx context.Context, tx pgx.Tx, msg *models.EmailMessage) error {
	if msg == nil {
		return nil
	}
	err := tx.QueryRow(ctx,
		"INSERT INTO email_queue (to_email, subject, body) VALUES ($1, $2, $3) RETURNING id, created_at",
		msg.ToEmail, msg.Subject, msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	msg.Status = models.EmailPending
	return nil
}

// Register inserts the user and queues their verification email atomically
func (r *PostgresUserRepository) Register(ctx context.Context, user *models.User, verification *models.EmailMessage) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (username, email, password_hash, email_verified, strategy_limit, account_size, verification_token)
			VALUES ($1, $2, $3, FALSE, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`,
			user.Username, user.Email, user.PasswordHash, user.StrategyLimit,
			user.AccountSize, user.VerificationToken,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		return enqueueEmail(ctx, tx, verification)
	})
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(r.db.GetPool().QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsernameOrEmail retrieves a user by either identifier
func (r *PostgresUserRepository) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	user, err := scanUser(r.db.GetPool().QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 OR email = $1", usernameOrEmail))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByVerificationToken retrieves an unverified user by verification token
func (r *PostgresUserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	user, err := scanUser(r.db.GetPool().QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE verification_token = $1 AND email_verified = FALSE", token))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by verification token: %w", err)
	}
	return user, nil
}

// GetByResetToken retrieves a user by an unexpired reset token
func (r *PostgresUserRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	user, err := scanUser(r.db.GetPool().QueryRow(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_token = $1 AND reset_token_expires > NOW()", token))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}
	return user, nil
}

// MarkVerified flags the user's email as verified and clears the token
func (r *PostgresUserRepository) MarkVerified(ctx context.Context, id int64) error {
	_, err := r.db.GetPool().Exec(ctx,
		"UPDATE users SET email_verified = TRUE, verification_token = NULL, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	return nil
}

// SetResetToken stores a reset token and queues the reset email atomically
func (r *PostgresUserRepository) SetResetToken(ctx context.Context, id int64, token string, expires time.Time, reset *models.EmailMessage) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			"UPDATE users SET reset_token = $1, reset_token_expires = $2, updated_at = NOW() WHERE id = $3",
			token, expires, id)
		if err != nil {
			return fmt.Errorf("failed to set reset token: %w", err)
		}

		return enqueueEmail(ctx, tx, reset)
	})
}

// UpdatePassword replaces the password hash and clears any reset token
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.GetPool().Exec(ctx,
		`UPDATE users SET password_hash = $1, reset_token = NULL, reset_token_expires = NULL,
		 updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// UpdateAccountSize stores the account size used by the equity curve
func (r *PostgresUserRepository) UpdateAccountSize(ctx context.Context, id int64, size decimal.Decimal) error {
	_, err := r.db.GetPool().Exec(ctx,
		"UPDATE users SET account_size = $1, updated_at = NOW() WHERE id = $2", size, id)
	if err != nil {
		return fmt.Errorf("failed to update account size: %w", err)
	}
	return nil
}

// UpdateStrategyLimit adjusts how many strategies the user may own
func (r *PostgresUserRepository) UpdateStrategyLimit(ctx context.Context, id int64, limit int) error {
	tag, err := r.db.GetPool().Exec(ctx,
		"UPDATE users SET strategy_limit = $1, updated_at = NOW() WHERE id = $2", limit, id)
	if err != nil {
		return fmt.Errorf("failed to update strategy limit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Exists reports whether a user with the username or email already exists
func (r *PostgresUserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := r.db.GetPool().QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)", username, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// List returns all users with their trade and strategy counts
func (r *PostgresUserRepository) List(ctx context.Context) ([]*models.UserSummary, error) {
	query := `
		SELECT ` + userColumns + `,
		       (SELECT COUNT(*) FROM trades t WHERE t.user_id = users.id),
		       (SELECT COUNT(*) FROM strategies s WHERE s.user_id = users.id)
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.EmailVerified, &u.IsAdmin,
			&u.StrategyLimit, &u.AccountSize, &u.VerificationToken, &u.ResetToken,
			&u.ResetTokenExpires, &u.CreatedAt, &u.UpdatedAt,
			&u.TradeCount, &u.StrategyCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}
