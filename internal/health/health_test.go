package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func TestHandleLive(t *testing.T) {
	checker := NewChecker("trade-logger", "test", nil)

	rec := httptest.NewRecorder()
	checker.HandleLive(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleReadyNotReadyUntilSet(t *testing.T) {
	checker := NewChecker("trade-logger", "test", stubPinger{})

	rec := httptest.NewRecorder()
	checker.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	checker.SetReady(true)

	rec = httptest.NewRecorder()
	checker.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadyDatabaseDown(t *testing.T) {
	checker := NewChecker("trade-logger", "test", stubPinger{err: errors.New("connection refused")})
	checker.SetReady(true)

	rec := httptest.NewRecorder()
	checker.HandleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database")
}
