package service

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/trade-logger/internal/models"
)

// timePattern matches 24-hour HH:MM times.
var timePattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

const (
	maxInstrumentLen = 50
	maxNotesLen      = 1000
)

// TradeValidator checks a candidate trade against the journal's business
// rules. Validation is fail-fast: the first broken rule is reported and the
// rest are not evaluated. It never mutates the trade or any global state.
type TradeValidator struct {
	now func() time.Time
}

// NewTradeValidator creates a trade validator using the wall clock.
func NewTradeValidator() *TradeValidator {
	return &TradeValidator{now: time.Now}
}

// Validate checks the trade and returns a ValidationError describing the
// first rule it breaks, or nil when the trade is acceptable.
func (v *TradeValidator) Validate(t *models.Trade) error {
	// Required fields
	if t.Date.IsZero() {
		return models.NewValidationError("Trade date is required")
	}
	if t.Instrument == "" {
		return models.NewValidationError("Instrument is required")
	}
	if t.Session == "" {
		return models.NewValidationError("Trading session is required")
	}
	if t.Direction == "" {
		return models.NewValidationError("Valid trade direction is required")
	}
	if !t.EntryPrice.IsPositive() {
		return models.NewValidationError("Valid entry price is required")
	}
	if !t.StopLoss.IsPositive() {
		return models.NewValidationError("Valid stop loss is required")
	}

	// Optional numeric ranges
	if t.TakeProfit != nil && !t.TakeProfit.IsPositive() {
		return models.NewValidationError("Invalid take profit value")
	}
	if t.RiskReward != nil && t.RiskReward.IsNegative() {
		return models.NewValidationError("Invalid RRR value")
	}

	// The trade date may be today but never in the future
	if t.Date.After(v.now()) {
		return models.NewValidationError("Trade date cannot be in the future")
	}

	// Enum membership
	if !t.Session.Valid() {
		return models.NewValidationError("Invalid trading session")
	}
	if !t.Direction.Valid() {
		return models.NewValidationError("Valid trade direction is required")
	}
	if t.Outcome != nil && !t.Outcome.Valid() {
		return models.NewValidationError("Invalid trade outcome")
	}
	if t.Status != "" && !t.Status.Valid() {
		return models.NewValidationError("Invalid trade status")
	}

	// Stop loss and take profit must sit on the correct side of the entry
	if err := validateStopLoss(t.Direction, t.EntryPrice, t.StopLoss); err != nil {
		return err
	}
	if t.TakeProfit != nil {
		if err := validateTakeProfit(t.Direction, t.EntryPrice, *t.TakeProfit); err != nil {
			return err
		}
	}

	// Time-of-day fields
	if t.EntryTime != nil && !timePattern.MatchString(*t.EntryTime) {
		return models.NewValidationError("Invalid entry time format")
	}
	if t.ExitTime != nil && !timePattern.MatchString(*t.ExitTime) {
		return models.NewValidationError("Invalid exit time format")
	}

	// Lengths
	if len(t.Instrument) > maxInstrumentLen {
		return models.NewValidationError("Instrument name too long")
	}
	if t.Notes != nil && len(*t.Notes) > maxNotesLen {
		return models.NewValidationError("Notes too long (max 1000 characters)")
	}

	return nil
}

func validateStopLoss(direction models.TradeDirection, entry, sl decimal.Decimal) error {
	if direction == models.DirectionLong && sl.GreaterThanOrEqual(entry) {
		return models.NewValidationError("For long trades, stop loss must be below entry price")
	}
	if direction == models.DirectionShort && sl.LessThanOrEqual(entry) {
		return models.NewValidationError("For short trades, stop loss must be above entry price")
	}
	return nil
}

func validateTakeProfit(direction models.TradeDirection, entry, tp decimal.Decimal) error {
	if direction == models.DirectionLong && tp.LessThanOrEqual(entry) {
		return models.NewValidationError("For long trades, take profit must be above entry price")
	}
	if direction == models.DirectionShort && tp.GreaterThanOrEqual(entry) {
		return models.NewValidationError("For short trades, take profit must be below entry price")
	}
	return nil
}

// ValidateStrategy checks a candidate strategy's fields. The strategy-count
// limit is a separate pre-condition and is not evaluated here.
func ValidateStrategy(s *models.Strategy) error {
	if len(s.Name) < 3 {
		return models.NewValidationError("Strategy name must be at least 3 characters")
	}
	if len(s.Name) > 100 {
		return models.NewValidationError("Strategy name cannot exceed 100 characters")
	}
	if s.Description != nil && len(*s.Description) > maxNotesLen {
		return models.NewValidationError("Strategy description cannot exceed 1000 characters")
	}
	if s.Instrument != nil && len(*s.Instrument) > maxInstrumentLen {
		return models.NewValidationError("Instrument name cannot exceed 50 characters")
	}
	for _, tf := range s.Timeframes {
		if !validTimeframe(tf) {
			return models.NewValidationError("Invalid timeframe: " + tf)
		}
	}
	for _, session := range s.Sessions {
		if !models.TradeSession(session).Valid() {
			return models.NewValidationError("Invalid trading session: " + session)
		}
	}
	return nil
}

func validTimeframe(tf string) bool {
	for _, option := range models.TimeframeOptions() {
		if tf == option {
			return true
		}
	}
	return false
}
