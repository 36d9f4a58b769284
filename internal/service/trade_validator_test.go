package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-logger/internal/models"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestValidator() *TradeValidator {
	return &TradeValidator{now: func() time.Time { return testNow }}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func validLongTrade() *models.Trade {
	return &models.Trade{
		UserID:     1,
		Date:       testNow.AddDate(0, 0, -1),
		Instrument: "EURUSD",
		Session:    models.SessionLondon,
		Direction:  models.DirectionLong,
		EntryPrice: dec("1.1000"),
		StopLoss:   dec("1.0950"),
		TakeProfit: decPtr("1.1100"),
		Status:     models.StatusOpen,
	}
}

func TestTradeValidation(t *testing.T) {
	validator := newTestValidator()

	tests := []struct {
		name   string
		mutate func(*models.Trade)
		errMsg string
	}{
		{
			name:   "valid long trade",
			mutate: func(tr *models.Trade) {},
		},
		{
			name: "valid short trade",
			mutate: func(tr *models.Trade) {
				tr.Direction = models.DirectionShort
				tr.StopLoss = dec("1.1050")
				tr.TakeProfit = decPtr("1.0900")
			},
		},
		{
			name:   "missing date",
			mutate: func(tr *models.Trade) { tr.Date = time.Time{} },
			errMsg: "Trade date is required",
		},
		{
			name:   "missing instrument",
			mutate: func(tr *models.Trade) { tr.Instrument = "" },
			errMsg: "Instrument is required",
		},
		{
			name:   "missing session",
			mutate: func(tr *models.Trade) { tr.Session = "" },
			errMsg: "Trading session is required",
		},
		{
			name:   "missing direction",
			mutate: func(tr *models.Trade) { tr.Direction = "" },
			errMsg: "Valid trade direction is required",
		},
		{
			name:   "zero entry price",
			mutate: func(tr *models.Trade) { tr.EntryPrice = decimal.Zero },
			errMsg: "Valid entry price is required",
		},
		{
			name:   "negative entry price",
			mutate: func(tr *models.Trade) { tr.EntryPrice = dec("-1") },
			errMsg: "Valid entry price is required",
		},
		{
			name:   "zero stop loss",
			mutate: func(tr *models.Trade) { tr.StopLoss = decimal.Zero },
			errMsg: "Valid stop loss is required",
		},
		{
			name:   "negative take profit",
			mutate: func(tr *models.Trade) { tr.TakeProfit = decPtr("-0.5") },
			errMsg: "Invalid take profit value",
		},
		{
			name:   "negative risk reward",
			mutate: func(tr *models.Trade) { tr.RiskReward = decPtr("-2") },
			errMsg: "Invalid RRR value",
		},
		{
			name:   "future date",
			mutate: func(tr *models.Trade) { tr.Date = testNow.AddDate(0, 0, 2) },
			errMsg: "Trade date cannot be in the future",
		},
		{
			name:   "unknown session",
			mutate: func(tr *models.Trade) { tr.Session = "Sydney" },
			errMsg: "Invalid trading session",
		},
		{
			name:   "unknown direction",
			mutate: func(tr *models.Trade) { tr.Direction = "sideways" },
			errMsg: "Valid trade direction is required",
		},
		{
			name: "unknown outcome",
			mutate: func(tr *models.Trade) {
				outcome := models.TradeOutcome("Draw")
				tr.Outcome = &outcome
			},
			errMsg: "Invalid trade outcome",
		},
		{
			name:   "unknown status",
			mutate: func(tr *models.Trade) { tr.Status = "paused" },
			errMsg: "Invalid trade status",
		},
		{
			name: "long stop loss above entry",
			mutate: func(tr *models.Trade) {
				tr.StopLoss = dec("1.1100")
				tr.TakeProfit = nil
			},
			errMsg: "For long trades, stop loss must be below entry price",
		},
		{
			name: "long stop loss equal to entry",
			mutate: func(tr *models.Trade) {
				tr.StopLoss = dec("1.1000")
				tr.TakeProfit = nil
			},
			errMsg: "For long trades, stop loss must be below entry price",
		},
		{
			name: "short stop loss below entry",
			mutate: func(tr *models.Trade) {
				tr.Direction = models.DirectionShort
				tr.TakeProfit = nil
			},
			errMsg: "For short trades, stop loss must be above entry price",
		},
		{
			name:   "long take profit below entry",
			mutate: func(tr *models.Trade) { tr.TakeProfit = decPtr("1.0900") },
			errMsg: "For long trades, take profit must be above entry price",
		},
		{
			name: "short take profit above entry",
			mutate: func(tr *models.Trade) {
				tr.Direction = models.DirectionShort
				tr.StopLoss = dec("1.1050")
				tr.TakeProfit = decPtr("1.1100")
			},
			errMsg: "For short trades, take profit must be below entry price",
		},
		{
			name:   "bad entry time",
			mutate: func(tr *models.Trade) { tr.EntryTime = strPtr("25:00") },
			errMsg: "Invalid entry time format",
		},
		{
			name:   "bad exit time",
			mutate: func(tr *models.Trade) { tr.ExitTime = strPtr("9:61") },
			errMsg: "Invalid exit time format",
		},
		{
			name: "valid times",
			mutate: func(tr *models.Trade) {
				tr.EntryTime = strPtr("9:30")
				tr.ExitTime = strPtr("23:59")
			},
		},
		{
			name: "instrument too long",
			mutate: func(tr *models.Trade) {
				tr.Instrument = string(make([]byte, 51))
			},
			errMsg: "Instrument name too long",
		},
		{
			name: "notes too long",
			mutate: func(tr *models.Trade) {
				long := make([]byte, 1001)
				for i := range long {
					long[i] = 'a'
				}
				tr.Notes = strPtr(string(long))
			},
			errMsg: "Notes too long (max 1000 characters)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := validLongTrade()
			tt.mutate(trade)

			err := validator.Validate(trade)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, models.IsValidationError(err))
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}

func TestTradeValidationFailFast(t *testing.T) {
	validator := newTestValidator()

	// Multiple broken rules; only the first in evaluation order is reported
	trade := validLongTrade()
	trade.Instrument = ""
	trade.Session = "Sydney"
	trade.StopLoss = dec("2.0")

	err := validator.Validate(trade)
	require.Error(t, err)
	assert.Equal(t, "Instrument is required", err.Error())
}

func TestTradeDateTodayAllowed(t *testing.T) {
	validator := newTestValidator()

	trade := validLongTrade()
	trade.Date = testNow.Add(-time.Hour)

	assert.NoError(t, validator.Validate(trade))
}

func TestStrategyValidation(t *testing.T) {
	tests := []struct {
		name     string
		strategy *models.Strategy
		errMsg   string
	}{
		{
			name:     "valid strategy",
			strategy: &models.Strategy{Name: "London Breakout"},
		},
		{
			name:     "name too short",
			strategy: &models.Strategy{Name: "AB"},
			errMsg:   "Strategy name must be at least 3 characters",
		},
		{
			name:     "name too long",
			strategy: &models.Strategy{Name: string(make([]byte, 101))},
			errMsg:   "Strategy name cannot exceed 100 characters",
		},
		{
			name: "description too long",
			strategy: &models.Strategy{
				Name:        "London Breakout",
				Description: strPtr(string(make([]byte, 1001))),
			},
			errMsg: "Strategy description cannot exceed 1000 characters",
		},
		{
			name: "valid timeframes and sessions",
			strategy: &models.Strategy{
				Name:       "London Breakout",
				Timeframes: []string{"15m", "1h"},
				Sessions:   []string{"London", "NY"},
			},
		},
		{
			name: "unknown timeframe",
			strategy: &models.Strategy{
				Name:       "London Breakout",
				Timeframes: []string{"2h"},
			},
			errMsg: "Invalid timeframe: 2h",
		},
		{
			name: "unknown session",
			strategy: &models.Strategy{
				Name:     "London Breakout",
				Sessions: []string{"Sydney"},
			},
			errMsg: "Invalid trading session: Sydney",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStrategy(tt.strategy)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.errMsg, err.Error())
		})
	}
}
