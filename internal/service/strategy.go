package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-logger/internal/logger"
	"github.com/yourusername/trade-logger/internal/metrics"
	"github.com/yourusername/trade-logger/internal/models"
	"github.com/yourusername/trade-logger/internal/repository"
	"github.com/yourusername/trade-logger/internal/storage"
)

const recentTradesLimit = 10

// StrategyService implements the strategy lifecycle. Creation is capped by
// the owning user's per-account strategy limit.
type StrategyService struct {
	strategies repository.StrategyRepository
	trades     repository.TradeRepository
	users      repository.UserRepository
	images     *storage.ImageStore
	logger     *logrus.Logger
	audit      *logger.AuditLogger
}

// NewStrategyService creates a new strategy service.
func NewStrategyService(
	strategies repository.StrategyRepository,
	trades repository.TradeRepository,
	users repository.UserRepository,
	images *storage.ImageStore,
	log *logrus.Logger,
	audit *logger.AuditLogger,
) *StrategyService {
	return &StrategyService{
		strategies: strategies,
		trades:     trades,
		users:      users,
		images:     images,
		logger:     log,
		audit:      audit,
	}
}

// Create validates and persists a new strategy. The user's strategy limit is
// checked before any field validation.
func (s *StrategyService) Create(ctx context.Context, strategy *models.Strategy) (*models.Strategy, error) {
	user, err := s.users.GetByID(ctx, strategy.UserID)
	if err != nil {
		return nil, err
	}

	count, err := s.strategies.CountByUser(ctx, strategy.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count strategies: %w", err)
	}
	if count >= user.StrategyLimit {
		return nil, &models.LimitExceededError{Limit: user.StrategyLimit}
	}

	if err := ValidateStrategy(strategy); err != nil {
		metrics.RecordValidationFailure("strategy")
		return nil, err
	}

	if err := s.strategies.Create(ctx, strategy); err != nil {
		return nil, &models.PersistenceError{Op: "create strategy", Err: err}
	}

	metrics.StrategiesCreatedTotal.Inc()
	s.logger.WithFields(logrus.Fields{
		"strategy_id": strategy.ID,
		"user_id":     strategy.UserID,
		"name":        strategy.Name,
	}).Info("Strategy created")

	return strategy, nil
}

// Get returns one of the user's strategies.
func (s *StrategyService) Get(ctx context.Context, id, userID int64) (*models.Strategy, error) {
	return s.strategies.GetByID(ctx, id, userID)
}

// List returns all of the user's strategies with their trade counts.
func (s *StrategyService) List(ctx context.Context, userID int64) ([]*models.Strategy, error) {
	strategies, err := s.strategies.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategies: %w", err)
	}
	return strategies, nil
}

// Update validates and persists changes to one of the user's strategies.
// When the incoming strategy carries no chart image the existing one is
// preserved.
func (s *StrategyService) Update(ctx context.Context, strategy *models.Strategy) (*models.Strategy, error) {
	existing, err := s.strategies.GetByID(ctx, strategy.ID, strategy.UserID)
	if err != nil {
		return nil, err
	}

	if err := ValidateStrategy(strategy); err != nil {
		metrics.RecordValidationFailure("strategy")
		return nil, err
	}

	if strategy.ChartImagePath == nil {
		strategy.ChartImagePath = existing.ChartImagePath
	} else if existing.ChartImagePath != nil && *existing.ChartImagePath != *strategy.ChartImagePath {
		s.images.Delete(*existing.ChartImagePath)
	}

	if err := s.strategies.Update(ctx, strategy); err != nil {
		if err == models.ErrNotFound {
			return nil, err
		}
		return nil, &models.PersistenceError{Op: "update strategy", Err: err}
	}

	return strategy, nil
}

// Delete removes one of the user's strategies. Trades referencing the
// strategy survive and are detached from it. The chart image removal is
// best-effort.
func (s *StrategyService) Delete(ctx context.Context, id, userID int64) error {
	strategy, err := s.strategies.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.strategies.Delete(ctx, id, userID); err != nil {
		return err
	}

	if strategy.ChartImagePath != nil {
		s.images.Delete(*strategy.ChartImagePath)
	}

	s.audit.LogStrategyDeletion(userID, id)
	return nil
}

// Stats returns a strategy together with its aggregate performance and most
// recent trades.
func (s *StrategyService) Stats(ctx context.Context, id, userID int64) (*models.StrategyStats, error) {
	strategy, err := s.strategies.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	filter := models.TradeFilter{StrategyID: &id}
	trades, err := s.trades.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load strategy trades: %w", err)
	}

	recent, err := s.trades.ListByStrategy(ctx, id, recentTradesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent trades: %w", err)
	}

	return &models.StrategyStats{
		Strategy:     strategy,
		Stats:        ComputeStats(trades),
		RecentTrades: recent,
	}, nil
}
