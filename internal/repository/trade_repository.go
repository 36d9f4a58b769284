package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/yourusername/trade-logger/internal/database"
	"github.com/yourusername/trade-logger/internal/models"
)

// PostgresTradeRepository implements TradeRepository for PostgreSQL
type PostgresTradeRepository struct {
	db *database.DB
}

// NewPostgresTradeRepository creates a new trade repository
func NewPostgresTradeRepository(db *database.DB) TradeRepository {
	return &PostgresTradeRepository{db: db}
}

const tradeColumns = `t.id, t.user_id, t.strategy_id, t.date, t.instrument, t.session, t.direction,
	       t.entry_time, t.exit_time, t.entry_price, t.sl, t.tp, t.rrr, t.outcome, t.status,
	       t.screenshot_path, t.notes, t.created_at, t.updated_at, s.name`

// sortableFields is the allow-list for caller-specified sorting. Anything else
// falls back to the default ordering.
var sortableFields = map[string]string{
	"date":        "t.date",
	"created_at":  "t.created_at",
	"instrument":  "t.instrument",
	"outcome":     "t.outcome",
	"rrr":         "t.rrr",
	"entry_price": "t.entry_price",
}

// orderByClause maps a requested sort field onto a safe ORDER BY. Unknown
// fields silently fall back to date descending rather than erroring.
func orderByClause(sort string, asc bool) string {
	column, ok := sortableFields[sort]
	if !ok {
		return " ORDER BY t.date DESC, t.created_at DESC"
	}
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, t.created_at DESC", column, dir)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(s rowScanner) (*models.Trade, error) {
	var (
		t         models.Trade
		session   string
		direction string
		status    string
		outcome   *string
		tp        decimal.NullDecimal
		rrr       decimal.NullDecimal
	)

	err := s.Scan(
		&t.ID, &t.UserID, &t.StrategyID, &t.Date, &t.Instrument, &session, &direction,
		&t.EntryTime, &t.ExitTime, &t.EntryPrice, &t.StopLoss, &tp, &rrr, &outcome, &status,
		&t.ScreenshotPath, &t.Notes, &t.CreatedAt, &t.UpdatedAt, &t.StrategyName,
	)
	if err != nil {
		return nil, err
	}

	t.Session = models.TradeSession(session)
	t.Direction = models.TradeDirection(direction)
	t.Status = models.TradeStatus(status)
	if outcome != nil {
		o := models.TradeOutcome(*outcome)
		t.Outcome = &o
	}
	if tp.Valid {
		t.TakeProfit = &tp.Decimal
	}
	if rrr.Valid {
		t.RiskReward = &rrr.Decimal
	}

	return &t, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func outcomeArg(o *models.TradeOutcome) *string {
	if o == nil {
		return nil
	}
	s := string(*o)
	return &s
}

// Create inserts a new trade
func (r *PostgresTradeRepository) Create(ctx context.Context, trade *models.Trade) error {
	query := `
		INSERT INTO trades (user_id, strategy_id, date, instrument, session, direction,
		                    entry_time, exit_time, entry_price, sl, tp, rrr, outcome, status,
		                    screenshot_path, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err := r.db.GetPool().QueryRow(ctx, query,
		trade.UserID, trade.StrategyID, trade.Date, trade.Instrument, string(trade.Session),
		string(trade.Direction), trade.EntryTime, trade.ExitTime, trade.EntryPrice, trade.StopLoss,
		nullDecimal(trade.TakeProfit), nullDecimal(trade.RiskReward), outcomeArg(trade.Outcome),
		string(trade.Status), trade.ScreenshotPath, trade.Notes,
	).Scan(&trade.ID, &trade.CreatedAt, &trade.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by ID scoped to its owner. A missing row and a
// row owned by someone else are indistinguishable.
func (r *PostgresTradeRepository) GetByID(ctx context.Context, id, userID int64) (*models.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades t
		LEFT JOIN strategies s ON t.strategy_id = s.id
		WHERE t.id = $1 AND t.user_id = $2
	`

	trade, err := scanTrade(r.db.GetPool().QueryRow(ctx, query, id, userID))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}

	return trade, nil
}

// ListByUser retrieves the user's trades narrowed by the filter
func (r *PostgresTradeRepository) ListByUser(ctx context.Context, userID int64, filter models.TradeFilter) ([]*models.Trade, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + tradeColumns + `
		FROM trades t
		LEFT JOIN strategies s ON t.strategy_id = s.id
		WHERE t.user_id = $1`)

	args := []any{userID}

	addFilter := func(clause string, value any) {
		args = append(args, value)
		sb.WriteString(fmt.Sprintf(" AND %s = $%d", clause, len(args)))
	}

	if filter.StrategyID != nil {
		addFilter("t.strategy_id", *filter.StrategyID)
	}
	if filter.Instrument != "" {
		addFilter("t.instrument", filter.Instrument)
	}
	if filter.Session != "" {
		addFilter("t.session", filter.Session)
	}
	if filter.Direction != "" {
		addFilter("t.direction", filter.Direction)
	}
	if filter.Outcome != "" {
		addFilter("t.outcome", filter.Outcome)
	}
	if filter.Status != "" {
		addFilter("t.status", filter.Status)
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		sb.WriteString(fmt.Sprintf(" AND t.date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		sb.WriteString(fmt.Sprintf(" AND t.date <= $%d", len(args)))
	}

	sb.WriteString(orderByClause(filter.Sort, filter.SortAsc))

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)))
	}

	rows, err := r.db.GetPool().Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trades: %w", err)
	}

	return trades, nil
}

// ListByStrategy retrieves the most recent trades attached to a strategy
func (r *PostgresTradeRepository) ListByStrategy(ctx context.Context, strategyID int64, limit int) ([]*models.Trade, error) {
	query := `
		SELECT ` + tradeColumns + `
		FROM trades t
		LEFT JOIN strategies s ON t.strategy_id = s.id
		WHERE t.strategy_id = $1
		ORDER BY t.date DESC, t.created_at DESC
	`
	args := []any{strategyID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategy trades: %w", err)
	}
	defer rows.Close()

	var trades []*models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read strategy trades: %w", err)
	}

	return trades, nil
}

// Update replaces the full trade record, scoped to its owner
func (r *PostgresTradeRepository) Update(ctx context.Context, trade *models.Trade) error {
	query := `
		UPDATE trades SET
			strategy_id = $1, date = $2, instrument = $3, session = $4, direction = $5,
			entry_time = $6, exit_time = $7, entry_price = $8, sl = $9, tp = $10, rrr = $11,
			outcome = $12, status = $13, screenshot_path = $14, notes = $15, updated_at = NOW()
		WHERE id = $16 AND user_id = $17
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		trade.StrategyID, trade.Date, trade.Instrument, string(trade.Session), string(trade.Direction),
		trade.EntryTime, trade.ExitTime, trade.EntryPrice, trade.StopLoss,
		nullDecimal(trade.TakeProfit), nullDecimal(trade.RiskReward), outcomeArg(trade.Outcome),
		string(trade.Status), trade.ScreenshotPath, trade.Notes,
		trade.ID, trade.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a trade, scoped to its owner
func (r *PostgresTradeRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.GetPool().Exec(ctx, "DELETE FROM trades WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DistinctInstruments returns the instruments the user has traded
func (r *PostgresTradeRepository) DistinctInstruments(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.GetPool().Query(ctx,
		"SELECT DISTINCT instrument FROM trades WHERE user_id = $1 ORDER BY instrument", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	defer rows.Close()

	var instruments []string
	for rows.Next() {
		var instrument string
		if err := rows.Scan(&instrument); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		instruments = append(instruments, instrument)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read instruments: %w", err)
	}

	return instruments, nil
}
