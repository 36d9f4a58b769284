package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-logger/internal/models"
)

func TestWriteTrades(t *testing.T) {
	win := models.OutcomeWin
	rrr := decimal.RequireFromString("2.5")
	tp := decimal.RequireFromString("1.1100")
	strategyName := "London Breakout"
	notes := "clean breakout, strong momentum"
	entryTime := "08:30"

	created := time.Date(2025, time.March, 10, 9, 15, 0, 0, time.UTC)
	trades := []*models.Trade{
		{
			Date:         time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
			StrategyName: &strategyName,
			Instrument:   "EURUSD",
			Session:      models.SessionLondon,
			Direction:    models.DirectionLong,
			EntryTime:    &entryTime,
			EntryPrice:   decimal.RequireFromString("1.1000"),
			StopLoss:     decimal.RequireFromString("1.0950"),
			TakeProfit:   &tp,
			RiskReward:   &rrr,
			Outcome:      &win,
			Status:       models.StatusClosed,
			Notes:        &notes,
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		{
			Date:       time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC),
			Instrument: "GBPUSD",
			Session:    models.SessionNY,
			Direction:  models.DirectionShort,
			EntryPrice: decimal.RequireFromString("1.2500"),
			StopLoss:   decimal.RequireFromString("1.2550"),
			Status:     models.StatusOpen,
			CreatedAt:  created,
			UpdatedAt:  created,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrades(&buf, trades, nil))

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, header, records[0])

	first := records[1]
	assert.Equal(t, "2025-03-10", first[0])
	assert.Equal(t, "London Breakout", first[1])
	assert.Equal(t, "EURUSD", first[2])
	assert.Equal(t, "London", first[3])
	assert.Equal(t, "Long", first[4])
	assert.Equal(t, "08:30", first[5])
	assert.Equal(t, "", first[6])
	assert.Equal(t, "1.1", first[7])
	assert.Equal(t, "2.5", first[10])
	assert.Equal(t, "Win", first[11])
	assert.Equal(t, "Closed", first[12])

	second := records[2]
	assert.Equal(t, "No Strategy", second[1])
	assert.Equal(t, "Short", second[4])
	assert.Equal(t, "", second[10])
	assert.Equal(t, "", second[11])
	assert.Equal(t, "Open", second[12])
}

func TestWriteTradesWithSummary(t *testing.T) {
	stats := &models.TradeStats{
		Total:   3,
		Winning: 2,
		Losing:  1,
		WinRate: 66.67,
		AvgRRR:  decimal.RequireFromString("1.75"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTrades(&buf, nil, stats))

	out := buf.String()
	assert.True(t, strings.Contains(out, "Summary Statistics"))
	assert.True(t, strings.Contains(out, "Total Trades,3"))
	assert.True(t, strings.Contains(out, "Win Rate,66.67%"))
	assert.True(t, strings.Contains(out, "Average RRR,1.75"))
}

func TestWriteTradesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrades(&buf, nil, nil))

	reader := csv.NewReader(&buf)
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, header, records[0])
}
