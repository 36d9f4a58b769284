package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeStats holds aggregate counts and ratios over a filtered trade set
type TradeStats struct {
	Total          int             `json:"total_trades"`
	Winning        int             `json:"winning_trades"`
	Losing         int             `json:"losing_trades"`
	Breakeven      int             `json:"breakeven_trades"`
	Open           int             `json:"open_trades"`
	WinRate        float64         `json:"win_rate"`
	AvgRRR         decimal.Decimal `json:"avg_rrr"`
	FirstTradeDate *time.Time      `json:"first_trade_date"`
	LastTradeDate  *time.Time      `json:"last_trade_date"`
}

// MonthlyStats is one calendar month's slice of a yearly breakdown.
// A breakdown always carries all twelve months, zero-valued when empty.
type MonthlyStats struct {
	Month      time.Month      `json:"month"`
	TradeCount int             `json:"trade_count"`
	Wins       int             `json:"wins"`
	Losses     int             `json:"losses"`
	AvgRRR     decimal.Decimal `json:"avg_rrr"`
}

// InstrumentStats aggregates trades per instrument
type InstrumentStats struct {
	Instrument string          `json:"instrument"`
	TradeCount int             `json:"trade_count"`
	Wins       int             `json:"wins"`
	Losses     int             `json:"losses"`
	AvgRRR     decimal.Decimal `json:"avg_rrr"`
}

// EquityPoint is one point of the cumulative equity curve
type EquityPoint struct {
	Label  string          `json:"label"`
	Equity decimal.Decimal `json:"equity"`
}

// StrategyStats aggregates performance of a single strategy
type StrategyStats struct {
	Strategy     *Strategy   `json:"strategy"`
	Stats        *TradeStats `json:"stats"`
	RecentTrades []*Trade    `json:"recent_trades"`
}

// TradeFilter narrows trade listings and aggregations. Zero values mean
// "no constraint" for the corresponding field.
type TradeFilter struct {
	StrategyID *int64
	Instrument string
	Session    string
	Direction  string
	Outcome    string
	Status     string
	DateFrom   *time.Time
	DateTo     *time.Time
	Sort       string
	SortAsc    bool
	Limit      int
	Offset     int
}
