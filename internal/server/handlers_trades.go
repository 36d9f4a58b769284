package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/trade-logger/internal/export"
	"github.com/yourusername/trade-logger/internal/models"
	"github.com/yourusername/trade-logger/internal/service"
)

const dateLayout = "2006-01-02"

// tradePayload is the wire form of a trade create or update request.
type tradePayload struct {
	StrategyID *int64           `json:"strategy_id"`
	Date       string           `json:"date"`
	Instrument string           `json:"instrument"`
	Session    string           `json:"session"`
	Direction  string           `json:"direction"`
	EntryTime  *string          `json:"entry_time"`
	ExitTime   *string          `json:"exit_time"`
	EntryPrice decimal.Decimal  `json:"entry_price"`
	StopLoss   decimal.Decimal  `json:"sl"`
	TakeProfit *decimal.Decimal `json:"tp"`
	RiskReward *decimal.Decimal `json:"rrr"`
	Outcome    *string          `json:"outcome"`
	Status     string           `json:"status"`
	Notes      *string          `json:"notes"`
}

func (p *tradePayload) toTrade(userID int64) (*models.Trade, error) {
	trade := &models.Trade{
		UserID:     userID,
		StrategyID: p.StrategyID,
		Instrument: p.Instrument,
		Session:    models.TradeSession(p.Session),
		Direction:  models.TradeDirection(p.Direction),
		EntryTime:  p.EntryTime,
		ExitTime:   p.ExitTime,
		EntryPrice: p.EntryPrice,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
		RiskReward: p.RiskReward,
		Status:     models.TradeStatus(p.Status),
		Notes:      p.Notes,
	}

	if p.Date != "" {
		date, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return nil, models.NewValidationError("Invalid date format")
		}
		trade.Date = date
	}

	if p.Outcome != nil {
		outcome := models.TradeOutcome(*p.Outcome)
		trade.Outcome = &outcome
	}

	return trade, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("Invalid id")
	}
	return id, nil
}

func tradeFilterFromQuery(r *http.Request) models.TradeFilter {
	q := r.URL.Query()
	filter := models.TradeFilter{
		Instrument: q.Get("instrument"),
		Session:    q.Get("session"),
		Direction:  q.Get("direction"),
		Outcome:    q.Get("outcome"),
		Status:     q.Get("status"),
		Sort:       q.Get("sort"),
		SortAsc:    q.Get("order") == "asc",
	}

	if v := q.Get("strategy_id"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.StrategyID = &id
		}
	}
	if v := q.Get("date_from"); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			filter.DateFrom = &t
		}
	}
	if v := q.Get("date_to"); v != "" {
		if t, err := time.Parse(dateLayout, v); err == nil {
			filter.DateTo = &t
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Offset = n
		}
	}

	return filter
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	trades, err := s.trades.List(r.Context(), user.ID, tradeFilterFromQuery(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trades)
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	var payload tradePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	user := userFrom(r.Context())
	trade, err := payload.toTrade(user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.trades.Create(r.Context(), trade)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	trade, err := s.trades.Get(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload tradePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	user := userFrom(r.Context())
	trade, err := payload.toTrade(user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	trade.ID = id

	updated, err := s.trades.Update(r.Context(), trade)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	if err := s.trades.Delete(r.Context(), id, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUploadScreenshot(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	trade, err := s.trades.Get(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	file, _, err := r.FormFile("screenshot")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Screenshot file is required"})
		return
	}
	defer file.Close()

	relPath, err := s.images.Save(file, "screenshots")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	trade.ScreenshotPath = &relPath
	if _, err := s.trades.Update(r.Context(), trade); err != nil {
		s.images.Delete(relPath)
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trade)
}

func (s *Server) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	instruments, err := s.trades.Instruments(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, instruments)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	stats, err := s.trades.Stats(r.Context(), user.ID, tradeFilterFromQuery(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	year := time.Now().UTC().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2000 || n > 2100 {
			s.writeError(w, r, models.NewValidationError("Invalid year"))
			return
		}
		year = n
	}

	analytics, err := s.trades.AnalyticsForYear(r.Context(), user, year, tradeFilterFromQuery(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	filter := tradeFilterFromQuery(r)
	filter.Limit = 0
	filter.Offset = 0

	trades, err := s.trades.List(r.Context(), user.ID, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("trades_%s.csv", time.Now().UTC().Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteTrades(w, trades, service.ComputeStats(trades)); err != nil {
		s.logger.WithError(err).Error("CSV export failed")
	}
}

func (s *Server) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	relPath := path.Join(r.PathValue("subdir"), r.PathValue("file"))

	file, err := s.images.Open(relPath)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "File not found"})
		return
	}
	defer file.Close()

	http.ServeContent(w, r, path.Base(relPath), time.Time{}, file)
}
