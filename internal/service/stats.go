package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/trade-logger/internal/models"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeStats derives aggregate counts and ratios from a trade set. The
// result is a pure function of its input: the same trades always produce the
// same statistics.
func ComputeStats(trades []*models.Trade) *models.TradeStats {
	stats := &models.TradeStats{}

	rrrSum := decimal.Zero
	rrrCount := 0
	for _, t := range trades {
		stats.Total++
		switch {
		case t.IsWin():
			stats.Winning++
		case t.IsLoss():
			stats.Losing++
		case t.IsBreakeven():
			stats.Breakeven++
		}
		if t.IsOpen() {
			stats.Open++
		}
		if t.HasRiskReward() {
			rrrSum = rrrSum.Add(*t.RiskReward)
			rrrCount++
		}

		date := t.Date
		if stats.FirstTradeDate == nil || date.Before(*stats.FirstTradeDate) {
			d := date
			stats.FirstTradeDate = &d
		}
		if stats.LastTradeDate == nil || date.After(*stats.LastTradeDate) {
			d := date
			stats.LastTradeDate = &d
		}
	}

	closed := stats.Winning + stats.Losing + stats.Breakeven
	if closed > 0 {
		stats.WinRate = float64(stats.Winning) / float64(closed) * 100
	}
	if rrrCount > 0 {
		stats.AvgRRR = rrrSum.DivRound(decimal.NewFromInt(int64(rrrCount)), 2)
	}

	return stats
}

// MonthlyBreakdown buckets a year's trades by calendar month. The result
// always has twelve entries, January through December, zero-valued for
// months without trades. Trades outside the given year are ignored.
func MonthlyBreakdown(trades []*models.Trade, year int) []models.MonthlyStats {
	months := make([]models.MonthlyStats, 12)
	rrrSums := make([]decimal.Decimal, 12)
	rrrCounts := make([]int, 12)
	for i := range months {
		months[i].Month = time.Month(i + 1)
	}

	for _, t := range trades {
		if t.Date.Year() != year {
			continue
		}
		i := int(t.Date.Month()) - 1
		months[i].TradeCount++
		if t.IsWin() {
			months[i].Wins++
		}
		if t.IsLoss() {
			months[i].Losses++
		}
		if t.HasRiskReward() {
			rrrSums[i] = rrrSums[i].Add(*t.RiskReward)
			rrrCounts[i]++
		}
	}

	for i := range months {
		if rrrCounts[i] > 0 {
			months[i].AvgRRR = rrrSums[i].DivRound(decimal.NewFromInt(int64(rrrCounts[i])), 2)
		}
	}

	return months
}

// InstrumentBreakdown aggregates trades per instrument, most traded first.
// Instruments with equal counts are ordered alphabetically.
func InstrumentBreakdown(trades []*models.Trade) []models.InstrumentStats {
	byInstrument := make(map[string]*models.InstrumentStats)
	rrrSums := make(map[string]decimal.Decimal)
	rrrCounts := make(map[string]int)

	for _, t := range trades {
		s, ok := byInstrument[t.Instrument]
		if !ok {
			s = &models.InstrumentStats{Instrument: t.Instrument}
			byInstrument[t.Instrument] = s
		}
		s.TradeCount++
		if t.IsWin() {
			s.Wins++
		}
		if t.IsLoss() {
			s.Losses++
		}
		if t.HasRiskReward() {
			rrrSums[t.Instrument] = rrrSums[t.Instrument].Add(*t.RiskReward)
			rrrCounts[t.Instrument]++
		}
	}

	out := make([]models.InstrumentStats, 0, len(byInstrument))
	for name, s := range byInstrument {
		if n := rrrCounts[name]; n > 0 {
			s.AvgRRR = rrrSums[name].DivRound(decimal.NewFromInt(int64(n)), 2)
		}
		out = append(out, *s)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TradeCount != out[j].TradeCount {
			return out[i].TradeCount > out[j].TradeCount
		}
		return out[i].Instrument < out[j].Instrument
	})

	return out
}

// EquityCurve simulates a year of account equity from a starting balance.
// Each month's percentage return is the sum of its trades' contributions,
// counting a win as +1 unit times its risk-reward ratio and a loss as -1
// unit; break-even and open trades contribute nothing. Monthly returns
// compound on the running balance. The curve always has thirteen points: the
// starting balance followed by one point per month.
func EquityCurve(trades []*models.Trade, year int, startingEquity decimal.Decimal) []models.EquityPoint {
	monthlyPct := make([]decimal.Decimal, 12)
	for _, t := range trades {
		if t.Date.Year() != year {
			continue
		}
		i := int(t.Date.Month()) - 1
		switch {
		case t.IsWin():
			rrr := decimal.Zero
			if t.HasRiskReward() {
				rrr = *t.RiskReward
			}
			monthlyPct[i] = monthlyPct[i].Add(rrr)
		case t.IsLoss():
			monthlyPct[i] = monthlyPct[i].Sub(decimal.NewFromInt(1))
		}
	}

	curve := make([]models.EquityPoint, 0, 13)
	curve = append(curve, models.EquityPoint{Label: "Start", Equity: startingEquity})

	equity := startingEquity
	for i := 0; i < 12; i++ {
		factor := decimal.NewFromInt(1).Add(monthlyPct[i].Div(oneHundred))
		equity = equity.Mul(factor).Round(2)
		curve = append(curve, models.EquityPoint{
			Label:  time.Month(i + 1).String()[:3],
			Equity: equity,
		})
	}

	return curve
}
