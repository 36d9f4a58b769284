package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/trade-logger/internal/database"
	"github.com/yourusername/trade-logger/internal/models"
)

// PostgresStrategyRepository implements StrategyRepository for PostgreSQL
type PostgresStrategyRepository struct {
	db *database.DB
}

// NewPostgresStrategyRepository creates a new strategy repository
func NewPostgresStrategyRepository(db *database.DB) StrategyRepository {
	return &PostgresStrategyRepository{db: db}
}

func marshalStringSet(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

// Create inserts a strategy and its conditions in one transaction
func (r *PostgresStrategyRepository) Create(ctx context.Context, strategy *models.Strategy) error {
	timeframes, err := marshalStringSet(strategy.Timeframes)
	if err != nil {
		return fmt.Errorf("failed to encode timeframes: %w", err)
	}
	sessions, err := marshalStringSet(strategy.Sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO strategies (user_id, name, description, instrument, timeframes, sessions, chart_image_path)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`,
			strategy.UserID, strategy.Name, strategy.Description, strategy.Instrument,
			timeframes, sessions, strategy.ChartImagePath,
		).Scan(&strategy.ID, &strategy.CreatedAt, &strategy.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create strategy: %w", err)
		}

		return insertConditions(ctx, tx, strategy.ID, strategy.Conditions)
	})
}

// insertConditions writes the full condition set for a strategy. Conditions
// with an unknown type or an empty description are skipped, not rejected.
func insertConditions(ctx context.Context, tx pgx.Tx, strategyID int64, conditions []models.Condition) error {
	for _, c := range conditions {
		if !c.Type.Valid() || c.Description == "" {
			continue
		}
		_, err := tx.Exec(ctx,
			"INSERT INTO strategy_conditions (strategy_id, type, description) VALUES ($1, $2, $3)",
			strategyID, string(c.Type), c.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert condition: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a strategy with its conditions, scoped to its owner
func (r *PostgresStrategyRepository) GetByID(ctx context.Context, id, userID int64) (*models.Strategy, error) {
	query := `
		SELECT s.id, s.user_id, s.name, s.description, s.instrument, s.timeframes, s.sessions,
		       s.chart_image_path, s.created_at, s.updated_at,
		       (SELECT COUNT(*) FROM trades t WHERE t.strategy_id = s.id)
		FROM strategies s
		WHERE s.id = $1 AND s.user_id = $2
	`

	strategy, err := scanStrategy(r.db.GetPool().QueryRow(ctx, query, id, userID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get strategy: %w", err)
	}

	conditions, err := r.conditions(ctx, id)
	if err != nil {
		return nil, err
	}
	strategy.Conditions = conditions

	return strategy, nil
}

func scanStrategy(s rowScanner) (*models.Strategy, error) {
	var (
		strategy   models.Strategy
		timeframes []byte
		sessions   []byte
	)

	err := s.Scan(
		&strategy.ID, &strategy.UserID, &strategy.Name, &strategy.Description, &strategy.Instrument,
		&timeframes, &sessions, &strategy.ChartImagePath, &strategy.CreatedAt, &strategy.UpdatedAt,
		&strategy.TradeCount,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(timeframes, &strategy.Timeframes); err != nil {
		return nil, fmt.Errorf("failed to decode timeframes: %w", err)
	}
	if err := json.Unmarshal(sessions, &strategy.Sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	return &strategy, nil
}

func (r *PostgresStrategyRepository) conditions(ctx context.Context, strategyID int64) ([]models.Condition, error) {
	rows, err := r.db.GetPool().Query(ctx,
		"SELECT id, strategy_id, type, description FROM strategy_conditions WHERE strategy_id = $1 ORDER BY id",
		strategyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conditions: %w", err)
	}
	defer rows.Close()

	var conditions []models.Condition
	for rows.Next() {
		var (
			c        models.Condition
			condType string
		)
		if err := rows.Scan(&c.ID, &c.StrategyID, &condType, &c.Description); err != nil {
			return nil, fmt.Errorf("failed to scan condition: %w", err)
		}
		c.Type = models.ConditionType(condType)
		conditions = append(conditions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read conditions: %w", err)
	}

	return conditions, nil
}

// ListByUser retrieves the user's strategies with per-strategy trade counts
func (r *PostgresStrategyRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Strategy, error) {
	query := `
		SELECT s.id, s.user_id, s.name, s.description, s.instrument, s.timeframes, s.sessions,
		       s.chart_image_path, s.created_at, s.updated_at, COUNT(t.id)
		FROM strategies s
		LEFT JOIN trades t ON s.id = t.strategy_id
		WHERE s.user_id = $1
		GROUP BY s.id
		ORDER BY s.created_at DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategies: %w", err)
	}
	defer rows.Close()

	var strategies []*models.Strategy
	for rows.Next() {
		strategy, err := scanStrategy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		strategies = append(strategies, strategy)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read strategies: %w", err)
	}

	return strategies, nil
}

// Update replaces the strategy and its full condition set in one transaction
func (r *PostgresStrategyRepository) Update(ctx context.Context, strategy *models.Strategy) error {
	timeframes, err := marshalStringSet(strategy.Timeframes)
	if err != nil {
		return fmt.Errorf("failed to encode timeframes: %w", err)
	}
	sessions, err := marshalStringSet(strategy.Sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE strategies SET
				name = $1, description = $2, instrument = $3, timeframes = $4, sessions = $5,
				chart_image_path = $6, updated_at = NOW()
			WHERE id = $7 AND user_id = $8
		`,
			strategy.Name, strategy.Description, strategy.Instrument, timeframes, sessions,
			strategy.ChartImagePath, strategy.ID, strategy.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to update strategy: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		// Full replacement of the condition set
		if _, err := tx.Exec(ctx, "DELETE FROM strategy_conditions WHERE strategy_id = $1", strategy.ID); err != nil {
			return fmt.Errorf("failed to clear conditions: %w", err)
		}

		return insertConditions(ctx, tx, strategy.ID, strategy.Conditions)
	})
}

// Delete removes a strategy and its conditions, and detaches referencing
// trades by nulling their strategy link. Trades themselves are never deleted.
func (r *PostgresStrategyRepository) Delete(ctx context.Context, id, userID int64) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM strategy_conditions WHERE strategy_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete conditions: %w", err)
		}

		if _, err := tx.Exec(ctx, "UPDATE trades SET strategy_id = NULL WHERE strategy_id = $1", id); err != nil {
			return fmt.Errorf("failed to detach trades: %w", err)
		}

		tag, err := tx.Exec(ctx, "DELETE FROM strategies WHERE id = $1 AND user_id = $2", id, userID)
		if err != nil {
			return fmt.Errorf("failed to delete strategy: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		return nil
	})
}

// CountByUser returns how many strategies the user owns
func (r *PostgresStrategyRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx,
		"SELECT COUNT(*) FROM strategies WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count strategies: %w", err)
	}
	return count, nil
}
