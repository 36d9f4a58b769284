package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-logger/internal/logger"
	"github.com/yourusername/trade-logger/internal/models"
	"github.com/yourusername/trade-logger/internal/storage"
)

func newTradeTestService(trades *fakeTradeRepo) *TradeService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	images := storage.NewImageStore(testImagesRoot(), 4*1024*1024, log)
	return NewTradeService(trades, images, log, logger.NewAuditLogger(log))
}

func yesterday() time.Time {
	return time.Now().UTC().AddDate(0, 0, -1)
}

func TestTradeCreateDefaultsToOpen(t *testing.T) {
	svc := newTradeTestService(newFakeTradeRepo())

	created, err := svc.Create(context.Background(), &models.Trade{
		UserID:     1,
		Date:       yesterday(),
		Instrument: "EURUSD",
		Session:    models.SessionLondon,
		Direction:  models.DirectionLong,
		EntryPrice: dec("1.1000"),
		StopLoss:   dec("1.0950"),
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, created.Status)
	assert.NotZero(t, created.ID)
}

func TestTradeCreateRejectsInvalid(t *testing.T) {
	trades := newFakeTradeRepo()
	svc := newTradeTestService(trades)

	_, err := svc.Create(context.Background(), &models.Trade{
		UserID:     1,
		Date:       yesterday(),
		Instrument: "EURUSD",
		Session:    models.SessionLondon,
		Direction:  models.DirectionLong,
		EntryPrice: dec("1.1000"),
		StopLoss:   dec("1.2000"),
	})

	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
	assert.Empty(t, trades.trades)
}

func TestTradeGetScopedToOwner(t *testing.T) {
	trades := newFakeTradeRepo()
	svc := newTradeTestService(trades)

	created, err := svc.Create(context.Background(), &models.Trade{
		UserID:     1,
		Date:       yesterday(),
		Instrument: "EURUSD",
		Session:    models.SessionLondon,
		Direction:  models.DirectionLong,
		EntryPrice: dec("1.1000"),
		StopLoss:   dec("1.0950"),
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), created.ID, 2)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTradeUpdatePreservesScreenshot(t *testing.T) {
	trades := newFakeTradeRepo()
	svc := newTradeTestService(trades)

	screenshot := "screenshots/abc.png"
	created, err := svc.Create(context.Background(), &models.Trade{
		UserID:         1,
		Date:           yesterday(),
		Instrument:     "EURUSD",
		Session:        models.SessionLondon,
		Direction:      models.DirectionLong,
		EntryPrice:     dec("1.1000"),
		StopLoss:       dec("1.0950"),
		ScreenshotPath: &screenshot,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), &models.Trade{
		ID:         created.ID,
		UserID:     1,
		Date:       yesterday(),
		Instrument: "GBPUSD",
		Session:    models.SessionNY,
		Direction:  models.DirectionLong,
		EntryPrice: dec("1.2500"),
		StopLoss:   dec("1.2400"),
	})

	require.NoError(t, err)
	require.NotNil(t, updated.ScreenshotPath)
	assert.Equal(t, screenshot, *updated.ScreenshotPath)
}

func TestTradeDelete(t *testing.T) {
	trades := newFakeTradeRepo()
	svc := newTradeTestService(trades)

	created, err := svc.Create(context.Background(), &models.Trade{
		UserID:     1,
		Date:       yesterday(),
		Instrument: "EURUSD",
		Session:    models.SessionLondon,
		Direction:  models.DirectionLong,
		EntryPrice: dec("1.1000"),
		StopLoss:   dec("1.0950"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), created.ID, 1), models.ErrNotFound)
}
