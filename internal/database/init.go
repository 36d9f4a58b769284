package database

import (
	"context"
	"fmt"

	"github.com/yourusername/trade-logger/internal/config"
)

// Initialize creates a database connection pool and verifies the schema is
// present. Missing tables are reported, not created; use InitSchema for that.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	var tableCount int
	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name IN
		 ('users', 'sessions', 'strategies', 'strategy_conditions', 'trades', 'email_queue')`,
	).Scan(&tableCount)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to inspect schema: %w", err)
	}

	if tableCount < 6 {
		db.Close()
		return nil, fmt.Errorf("schema incomplete (%d of 6 tables present), run the migrate command", tableCount)
	}

	return db, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		strategy_limit INT NOT NULL DEFAULT 3,
		account_size NUMERIC(18,2) NOT NULL DEFAULT 0,
		verification_token VARCHAR(64),
		reset_token VARCHAR(64),
		reset_token_expires TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token VARCHAR(64) PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		ip_address VARCHAR(45) NOT NULL DEFAULT '',
		user_agent VARCHAR(255) NOT NULL DEFAULT '',
		last_activity TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS strategies (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL,
		description VARCHAR(1000),
		instrument VARCHAR(50),
		timeframes JSONB NOT NULL DEFAULT '[]',
		sessions JSONB NOT NULL DEFAULT '[]',
		chart_image_path VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS strategy_conditions (
		id BIGSERIAL PRIMARY KEY,
		strategy_id BIGINT NOT NULL REFERENCES strategies(id) ON DELETE CASCADE,
		type VARCHAR(20) NOT NULL,
		description VARCHAR(1000) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trades (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		strategy_id BIGINT REFERENCES strategies(id) ON DELETE SET NULL,
		date DATE NOT NULL,
		instrument VARCHAR(50) NOT NULL,
		session VARCHAR(20) NOT NULL,
		direction VARCHAR(10) NOT NULL,
		entry_time VARCHAR(5),
		exit_time VARCHAR(5),
		entry_price NUMERIC(18,6) NOT NULL,
		sl NUMERIC(18,6) NOT NULL,
		tp NUMERIC(18,6),
		rrr NUMERIC(10,2),
		outcome VARCHAR(20),
		status VARCHAR(20) NOT NULL DEFAULT 'open',
		screenshot_path VARCHAR(255),
		notes VARCHAR(1000),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS email_queue (
		id BIGSERIAL PRIMARY KEY,
		to_email VARCHAR(255) NOT NULL,
		subject VARCHAR(255) NOT NULL,
		body TEXT NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		attempts INT NOT NULL DEFAULT 0,
		last_error VARCHAR(1000),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		sent_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_user_date ON trades (user_id, date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_trades_strategy ON trades (strategy_id)`,
	`CREATE INDEX IF NOT EXISTS idx_strategies_user ON strategies (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_email_queue_status ON email_queue (status, created_at)`,
}

// InitSchema creates all tables and indexes if they do not exist.
func InitSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
