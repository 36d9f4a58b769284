package server

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.admin.ListUsers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type strategyLimitRequest struct {
	Limit int `json:"limit"`
}

func (s *Server) handleAdminSetStrategyLimit(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in strategyLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	admin := userFrom(r.Context())
	if err := s.admin.SetStrategyLimit(r.Context(), admin.ID, userID, in.Limit); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Strategy limit updated"})
}

func (s *Server) handleAdminHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.admin.Health(r.Context()))
}
