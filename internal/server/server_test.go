package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/yourusername/trade-logger/internal/models"
)

func newTestServer() *Server {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return &Server{logger: log}
}

func TestWriteErrorMapping(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "validation error keeps its message",
			err:            models.NewValidationError("Instrument is required"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "Instrument is required",
		},
		{
			name:           "limit exceeded maps to conflict",
			err:            &models.LimitExceededError{Limit: 3},
			expectedStatus: http.StatusConflict,
			expectedBody:   "You have reached your strategy limit. Contact admin to increase your limit.",
		},
		{
			name:           "not found",
			err:            models.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Record not found",
		},
		{
			name:           "persistence error hides the detail",
			err:            &models.PersistenceError{Op: "create trade", Err: errors.New("connection refused")},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "An unexpected error occurred. Please try again.",
		},
		{
			name:           "unknown error hides the detail",
			err:            errors.New("something internal"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "An unexpected error occurred. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/trades", nil)

			srv.writeError(rec, req, tt.err)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestSessionTokenSources(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/trades", nil)
	assert.Empty(t, sessionToken(req))

	req = httptest.NewRequest(http.MethodGet, "/api/trades", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", sessionToken(req))

	req = httptest.NewRequest(http.MethodGet, "/api/trades", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "cookie-token"})
	assert.Equal(t, "cookie-token", sessionToken(req))

	// Cookie wins over the header when both are present
	req.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "cookie-token", sessionToken(req))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4567"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}

func TestTradeFilterFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/trades?instrument=EURUSD&session=London&outcome=Win&sort=rrr&order=asc&strategy_id=7&limit=20&offset=40&date_from=2025-01-01&date_to=2025-06-30", nil)

	filter := tradeFilterFromQuery(req)

	assert.Equal(t, "EURUSD", filter.Instrument)
	assert.Equal(t, "London", filter.Session)
	assert.Equal(t, "Win", filter.Outcome)
	assert.Equal(t, "rrr", filter.Sort)
	assert.True(t, filter.SortAsc)
	assert.NotNil(t, filter.StrategyID)
	assert.Equal(t, int64(7), *filter.StrategyID)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 40, filter.Offset)
	assert.NotNil(t, filter.DateFrom)
	assert.NotNil(t, filter.DateTo)
}

func TestTradePayloadBadDate(t *testing.T) {
	payload := &tradePayload{
		Date:       "31/12/2025",
		Instrument: "EURUSD",
	}

	_, err := payload.toTrade(1)
	assert.Error(t, err)
	assert.Equal(t, "Invalid date format", err.Error())
}
