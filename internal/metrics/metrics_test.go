package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthz_DegradedUntilFeedRuns(t *testing.T) {
	h := NewHealthStatus()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("feed stopped: status %d, want 503", rec.Code)
	}

	h.SetFeedRunning(true)
	h.SetLastBar(time.Now(), 120)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("feed running: status %d, want 200", rec.Code)
	}

	var body struct {
		Status     string `json:"status"`
		HistoryLen int    `json:"history_len"`
		BarAge     string `json:"bar_age"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("status %q, want healthy", body.Status)
	}
	if body.HistoryLen != 120 {
		t.Errorf("history_len %d, want 120", body.HistoryLen)
	}
	if body.BarAge == "" {
		t.Error("bar_age missing after SetLastBar")
	}
}

func TestNewMetrics_RegistersOnce(t *testing.T) {
	m := NewMetrics()
	if m.BarsAppended == nil || m.HitTestsTotal == nil || m.WSClients == nil {
		t.Fatal("metrics constructed with nil collectors")
	}
	m.BarsAppended.Inc()
	m.HitTestsTotal.WithLabelValues("event").Inc()
	m.WSClients.Set(3)
}
