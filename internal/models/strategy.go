package models

import "time"

// ConditionType classifies a strategy condition
type ConditionType string

const (
	ConditionEntry        ConditionType = "entry"
	ConditionExit         ConditionType = "exit"
	ConditionInvalidation ConditionType = "invalidation"
)

// Valid reports whether the condition type is a known value.
func (c ConditionType) Valid() bool {
	switch c {
	case ConditionEntry, ConditionExit, ConditionInvalidation:
		return true
	}
	return false
}

// Condition is a single rule belonging to a strategy. Conditions are always
// replaced as a full set when their parent strategy is saved.
type Condition struct {
	ID          int64         `db:"id" json:"id"`
	StrategyID  int64         `db:"strategy_id" json:"strategy_id"`
	Type        ConditionType `db:"type" json:"type"`
	Description string        `db:"description" json:"description"`
}

// Strategy represents a named trading plan a user can attach trades to
type Strategy struct {
	ID             int64       `db:"id" json:"id"`
	UserID         int64       `db:"user_id" json:"user_id"`
	Name           string      `db:"name" json:"name" validate:"required,min=3,max=100"`
	Description    *string     `db:"description" json:"description"`
	Instrument     *string     `db:"instrument" json:"instrument"`
	Timeframes     []string    `db:"timeframes" json:"timeframes"`
	Sessions       []string    `db:"sessions" json:"sessions"`
	Conditions     []Condition `db:"-" json:"conditions"`
	ChartImagePath *string     `db:"chart_image_path" json:"chart_image_path"`
	TradeCount     int         `db:"trade_count" json:"trade_count"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// TimeframeOptions lists the timeframes a strategy can be defined on.
func TimeframeOptions() []string {
	return []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d", "1w", "1M"}
}
