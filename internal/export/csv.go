// Package export renders a user's trade journal as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/trade-logger/internal/models"
)

var header = []string{
	"Date", "Strategy", "Instrument", "Session", "Direction",
	"Entry Time", "Exit Time", "Entry Price", "Stop Loss", "Take Profit",
	"RRR", "Outcome", "Status", "Notes", "Created At", "Updated At",
}

// WriteTrades writes the trades as CSV followed by a summary block. The
// column layout is stable so exports can be re-imported into spreadsheets.
func WriteTrades(w io.Writer, trades []*models.Trade, stats *models.TradeStats) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range trades {
		if err := cw.Write(tradeRecord(t)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	if stats != nil {
		if err := writeSummary(cw, stats); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func tradeRecord(t *models.Trade) []string {
	strategy := "No Strategy"
	if t.StrategyName != nil {
		strategy = *t.StrategyName
	}

	outcome := ""
	if t.Outcome != nil {
		outcome = string(*t.Outcome)
	}

	return []string{
		t.Date.Format("2006-01-02"),
		strategy,
		t.Instrument,
		string(t.Session),
		title(string(t.Direction)),
		strOrEmpty(t.EntryTime),
		strOrEmpty(t.ExitTime),
		t.EntryPrice.String(),
		t.StopLoss.String(),
		decOrEmpty(t.TakeProfit),
		decOrEmpty(t.RiskReward),
		outcome,
		title(string(t.Status)),
		strOrEmpty(t.Notes),
		t.CreatedAt.Format("2006-01-02 15:04:05"),
		t.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func writeSummary(cw *csv.Writer, stats *models.TradeStats) error {
	rows := [][]string{
		{},
		{"Summary Statistics"},
		{"Total Trades", fmt.Sprintf("%d", stats.Total)},
		{"Winning Trades", fmt.Sprintf("%d", stats.Winning)},
		{"Losing Trades", fmt.Sprintf("%d", stats.Losing)},
		{"Break-even Trades", fmt.Sprintf("%d", stats.Breakeven)},
		{"Open Trades", fmt.Sprintf("%d", stats.Open)},
		{"Win Rate", fmt.Sprintf("%.2f%%", stats.WinRate)},
		{"Average RRR", stats.AvgRRR.StringFixed(2)},
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}
	return nil
}

func title(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func decOrEmpty(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
