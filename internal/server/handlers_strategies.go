package server

import (
	"encoding/json"
	"net/http"

	"github.com/yourusername/trade-logger/internal/models"
)

// strategyPayload is the wire form of a strategy create or update request.
type strategyPayload struct {
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Instrument  *string            `json:"instrument"`
	Timeframes  []string           `json:"timeframes"`
	Sessions    []string           `json:"sessions"`
	Conditions  []models.Condition `json:"conditions"`
}

func (p *strategyPayload) toStrategy(userID int64) *models.Strategy {
	return &models.Strategy{
		UserID:      userID,
		Name:        p.Name,
		Description: p.Description,
		Instrument:  p.Instrument,
		Timeframes:  p.Timeframes,
		Sessions:    p.Sessions,
		Conditions:  p.Conditions,
	}
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	strategies, err := s.strategies.List(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, strategies)
}

func (s *Server) handleCreateStrategy(w http.ResponseWriter, r *http.Request) {
	var payload strategyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	user := userFrom(r.Context())
	created, err := s.strategies.Create(r.Context(), payload.toStrategy(user.ID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	strategy, err := s.strategies.Get(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, strategy)
}

func (s *Server) handleUpdateStrategy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var payload strategyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	user := userFrom(r.Context())
	strategy := payload.toStrategy(user.ID)
	strategy.ID = id

	updated, err := s.strategies.Update(r.Context(), strategy)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteStrategy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	if err := s.strategies.Delete(r.Context(), id, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleStrategyStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	stats, err := s.strategies.Stats(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleUploadChart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user := userFrom(r.Context())
	strategy, err := s.strategies.Get(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	file, _, err := r.FormFile("chart")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Chart image file is required"})
		return
	}
	defer file.Close()

	relPath, err := s.images.Save(file, "charts")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	strategy.ChartImagePath = &relPath
	if _, err := s.strategies.Update(r.Context(), strategy); err != nil {
		s.images.Delete(relPath)
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, strategy)
}
