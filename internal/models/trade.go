package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeDirection represents the direction of a trade (long or short)
type TradeDirection string

const (
	DirectionLong  TradeDirection = "long"
	DirectionShort TradeDirection = "short"
)

// Valid reports whether the direction is a known value.
func (d TradeDirection) Valid() bool {
	return d == DirectionLong || d == DirectionShort
}

// TradeSession represents the trading session a trade was taken in
type TradeSession string

const (
	SessionAsia     TradeSession = "Asia"
	SessionLondon   TradeSession = "London"
	SessionNY       TradeSession = "NY"
	SessionMultiple TradeSession = "Multiple"
)

// Valid reports whether the session is a known value.
func (s TradeSession) Valid() bool {
	switch s {
	case SessionAsia, SessionLondon, SessionNY, SessionMultiple:
		return true
	}
	return false
}

// TradeOutcome represents the realized result of a closed trade
type TradeOutcome string

const (
	OutcomeWin       TradeOutcome = "Win"
	OutcomeLoss      TradeOutcome = "Loss"
	OutcomeBreakeven TradeOutcome = "Break-even"
)

// Valid reports whether the outcome is a known value.
func (o TradeOutcome) Valid() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomeBreakeven:
		return true
	}
	return false
}

// TradeStatus represents the lifecycle status of a trade
type TradeStatus string

const (
	StatusOpen      TradeStatus = "open"
	StatusClosed    TradeStatus = "closed"
	StatusCancelled TradeStatus = "cancelled"
)

// Valid reports whether the status is a known value.
func (s TradeStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// Trade represents one logged trading transaction
type Trade struct {
	ID             int64            `db:"id" json:"id"`
	UserID         int64            `db:"user_id" json:"user_id"`
	StrategyID     *int64           `db:"strategy_id" json:"strategy_id"`
	StrategyName   *string          `db:"strategy_name" json:"strategy_name,omitempty"`
	Date           time.Time        `db:"date" json:"date"`
	Instrument     string           `db:"instrument" json:"instrument" validate:"required,max=50"`
	Session        TradeSession     `db:"session" json:"session" validate:"required,oneof=Asia London NY Multiple"`
	Direction      TradeDirection   `db:"direction" json:"direction" validate:"required,oneof=long short"`
	EntryTime      *string          `db:"entry_time" json:"entry_time"`
	ExitTime       *string          `db:"exit_time" json:"exit_time"`
	EntryPrice     decimal.Decimal  `db:"entry_price" json:"entry_price"`
	StopLoss       decimal.Decimal  `db:"sl" json:"sl"`
	TakeProfit     *decimal.Decimal `db:"tp" json:"tp"`
	RiskReward     *decimal.Decimal `db:"rrr" json:"rrr"`
	Outcome        *TradeOutcome    `db:"outcome" json:"outcome"`
	Status         TradeStatus      `db:"status" json:"status"`
	ScreenshotPath *string          `db:"screenshot_path" json:"screenshot_path"`
	Notes          *string          `db:"notes" json:"notes"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// IsWin reports whether the trade was recorded as a win.
func (t *Trade) IsWin() bool {
	return t.Outcome != nil && *t.Outcome == OutcomeWin
}

// IsLoss reports whether the trade was recorded as a loss.
func (t *Trade) IsLoss() bool {
	return t.Outcome != nil && *t.Outcome == OutcomeLoss
}

// IsBreakeven reports whether the trade was recorded as break-even.
func (t *Trade) IsBreakeven() bool {
	return t.Outcome != nil && *t.Outcome == OutcomeBreakeven
}

// IsOpen reports whether the trade is still open.
func (t *Trade) IsOpen() bool {
	return t.Status == StatusOpen
}

// HasRiskReward reports whether the user entered a risk:reward ratio.
// The ratio is a manual value and is never derived from the price levels.
func (t *Trade) HasRiskReward() bool {
	return t.RiskReward != nil
}
