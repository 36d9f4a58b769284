package service

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-logger/internal/logger"
	"github.com/yourusername/trade-logger/internal/models"
	"github.com/yourusername/trade-logger/internal/storage"
)

func testImagesRoot() string {
	return os.TempDir()
}

func newStrategyTestService(users *fakeUserRepo, strategies *fakeStrategyRepo, trades *fakeTradeRepo) *StrategyService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	images := storage.NewImageStore(testImagesRoot(), 4*1024*1024, log)
	return NewStrategyService(strategies, trades, users, images, log, logger.NewAuditLogger(log))
}

func testUser(id int64, limit int) *models.User {
	return &models.User{
		ID:            id,
		Username:      "trader",
		Email:         "trader@example.com",
		EmailVerified: true,
		StrategyLimit: limit,
		AccountSize:   dec("10000"),
	}
}

func TestStrategyCreateWithinLimit(t *testing.T) {
	users := newFakeUserRepo(testUser(1, 3))
	strategies := newFakeStrategyRepo()
	svc := newStrategyTestService(users, strategies, newFakeTradeRepo())

	created, err := svc.Create(context.Background(), &models.Strategy{
		UserID: 1,
		Name:   "London Breakout",
	})

	require.NoError(t, err)
	assert.NotZero(t, created.ID)
}

func TestStrategyCreateLimitExceeded(t *testing.T) {
	users := newFakeUserRepo(testUser(1, 1))
	strategies := newFakeStrategyRepo()
	svc := newStrategyTestService(users, strategies, newFakeTradeRepo())

	_, err := svc.Create(context.Background(), &models.Strategy{UserID: 1, Name: "First"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &models.Strategy{UserID: 1, Name: "Second"})
	require.Error(t, err)
	assert.True(t, models.IsLimitExceeded(err))
	assert.Equal(t, "You have reached your strategy limit. Contact admin to increase your limit.", err.Error())
}

func TestStrategyCreateLimitCheckedBeforeValidation(t *testing.T) {
	users := newFakeUserRepo(testUser(1, 1))
	strategies := newFakeStrategyRepo()
	svc := newStrategyTestService(users, strategies, newFakeTradeRepo())

	_, err := svc.Create(context.Background(), &models.Strategy{UserID: 1, Name: "First"})
	require.NoError(t, err)

	// An invalid name still reports the limit first
	_, err = svc.Create(context.Background(), &models.Strategy{UserID: 1, Name: "X"})
	require.Error(t, err)
	assert.True(t, models.IsLimitExceeded(err))
}

func TestStrategyCreateInvalidName(t *testing.T) {
	users := newFakeUserRepo(testUser(1, 3))
	svc := newStrategyTestService(users, newFakeStrategyRepo(), newFakeTradeRepo())

	_, err := svc.Create(context.Background(), &models.Strategy{UserID: 1, Name: "XY"})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestStrategyGetOtherUsersStrategy(t *testing.T) {
	users := newFakeUserRepo(testUser(1, 3), testUser(2, 3))
	strategies := newFakeStrategyRepo()
	svc := newStrategyTestService(users, strategies, newFakeTradeRepo())

	created, err := svc.Create(context.Background(), &models.Strategy{UserID: 1, Name: "Mine"})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID, 2)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStrategyStats(t *testing.T) {
	users := newFakeUserRepo(testUser(1, 3))
	strategies := newFakeStrategyRepo()
	trades := newFakeTradeRepo()
	svc := newStrategyTestService(users, strategies, trades)

	created, err := svc.Create(context.Background(), &models.Strategy{UserID: 1, Name: "Breakout"})
	require.NoError(t, err)

	win := models.OutcomeWin
	require.NoError(t, trades.Create(context.Background(), &models.Trade{
		UserID:     1,
		StrategyID: &created.ID,
		Instrument: "EURUSD",
		Session:    models.SessionLondon,
		Direction:  models.DirectionLong,
		EntryPrice: dec("100"),
		StopLoss:   dec("95"),
		Outcome:    &win,
		Status:     models.StatusClosed,
	}))

	stats, err := svc.Stats(context.Background(), created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Stats.Total)
	assert.Equal(t, 1, stats.Stats.Winning)
	assert.Len(t, stats.RecentTrades, 1)
}
