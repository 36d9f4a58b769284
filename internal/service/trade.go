package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-logger/internal/logger"
	"github.com/yourusername/trade-logger/internal/metrics"
	"github.com/yourusername/trade-logger/internal/models"
	"github.com/yourusername/trade-logger/internal/repository"
	"github.com/yourusername/trade-logger/internal/storage"
)

// TradeService implements the trade lifecycle: create, read, update, delete
// and aggregation. Every operation is scoped to the owning user.
type TradeService struct {
	trades    repository.TradeRepository
	validator *TradeValidator
	images    *storage.ImageStore
	logger    *logrus.Logger
	audit     *logger.AuditLogger
}

// NewTradeService creates a new trade service.
func NewTradeService(trades repository.TradeRepository, images *storage.ImageStore, log *logrus.Logger, audit *logger.AuditLogger) *TradeService {
	return &TradeService{
		trades:    trades,
		validator: NewTradeValidator(),
		images:    images,
		logger:    log,
		audit:     audit,
	}
}

// Create validates and persists a new trade for the given user. A trade
// with no explicit status starts open.
func (s *TradeService) Create(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	if trade.Status == "" {
		trade.Status = models.StatusOpen
	}
	if err := s.validator.Validate(trade); err != nil {
		metrics.RecordValidationFailure("trade")
		return nil, err
	}

	if err := s.trades.Create(ctx, trade); err != nil {
		return nil, &models.PersistenceError{Op: "create trade", Err: err}
	}

	metrics.TradesCreatedTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"trade_id":   trade.ID,
		"user_id":    trade.UserID,
		"instrument": trade.Instrument,
	}).Info("Trade created")

	return trade, nil
}

// Get returns one of the user's trades.
func (s *TradeService) Get(ctx context.Context, id, userID int64) (*models.Trade, error) {
	return s.trades.GetByID(ctx, id, userID)
}

// List returns the user's trades narrowed by the filter.
func (s *TradeService) List(ctx context.Context, userID int64, filter models.TradeFilter) ([]*models.Trade, error) {
	trades, err := s.trades.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// Update validates and persists changes to one of the user's trades. When the
// incoming trade carries no screenshot the existing one is preserved.
func (s *TradeService) Update(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	existing, err := s.trades.GetByID(ctx, trade.ID, trade.UserID)
	if err != nil {
		return nil, err
	}

	if trade.Status == "" {
		trade.Status = existing.Status
	}
	if err := s.validator.Validate(trade); err != nil {
		metrics.RecordValidationFailure("trade")
		return nil, err
	}

	if trade.ScreenshotPath == nil {
		trade.ScreenshotPath = existing.ScreenshotPath
	} else if existing.ScreenshotPath != nil && *existing.ScreenshotPath != *trade.ScreenshotPath {
		s.images.Delete(*existing.ScreenshotPath)
	}

	if err := s.trades.Update(ctx, trade); err != nil {
		if err == models.ErrNotFound {
			return nil, err
		}
		return nil, &models.PersistenceError{Op: "update trade", Err: err}
	}

	metrics.TradesUpdatedTotal.Inc()
	return trade, nil
}

// Delete removes one of the user's trades and its screenshot file. The
// screenshot removal is best-effort and never fails the deletion.
func (s *TradeService) Delete(ctx context.Context, id, userID int64) error {
	trade, err := s.trades.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.trades.Delete(ctx, id, userID); err != nil {
		return err
	}

	screenshot := ""
	if trade.ScreenshotPath != nil {
		screenshot = *trade.ScreenshotPath
		s.images.Delete(screenshot)
	}

	metrics.TradesDeletedTotal.Inc()
	s.audit.LogTradeDeletion(userID, id, screenshot)
	return nil
}

// Instruments returns the distinct instruments the user has traded.
func (s *TradeService) Instruments(ctx context.Context, userID int64) ([]string, error) {
	return s.trades.DistinctInstruments(ctx, userID)
}

// Stats aggregates statistics over the user's trades narrowed by the filter.
func (s *TradeService) Stats(ctx context.Context, userID int64, filter models.TradeFilter) (*models.TradeStats, error) {
	start := time.Now()
	trades, err := s.trades.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades for stats: %w", err)
	}
	stats := ComputeStats(trades)
	metrics.StatsComputationDuration.Observe(time.Since(start).Seconds())
	return stats, nil
}

// Analytics bundles the yearly breakdowns the dashboard needs.
type Analytics struct {
	Year        int                      `json:"year"`
	Stats       *models.TradeStats       `json:"stats"`
	Monthly     []models.MonthlyStats    `json:"monthly"`
	Instruments []models.InstrumentStats `json:"instruments"`
	EquityCurve []models.EquityPoint     `json:"equity_curve"`
}

// AnalyticsForYear computes the full yearly analytics view for a user. The
// equity curve starts from the user's configured account size.
func (s *TradeService) AnalyticsForYear(ctx context.Context, user *models.User, year int, filter models.TradeFilter) (*Analytics, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	filter.DateFrom = &from
	filter.DateTo = &to
	filter.Limit = 0
	filter.Offset = 0

	start := time.Now()
	trades, err := s.trades.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades for analytics: %w", err)
	}

	a := &Analytics{
		Year:        year,
		Stats:       ComputeStats(trades),
		Monthly:     MonthlyBreakdown(trades, year),
		Instruments: InstrumentBreakdown(trades),
		EquityCurve: EquityCurve(trades, year, user.AccountSize),
	}
	metrics.StatsComputationDuration.Observe(time.Since(start).Seconds())
	return a, nil
}
