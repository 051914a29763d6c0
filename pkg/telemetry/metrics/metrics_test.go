package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TestCollector_Exposition records one of each metric and checks the
// scrape output.
func TestCollector_Exposition(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordRequest("POST", "/chat", 200, 150*time.Millisecond)
	c.RecordRequest("GET", "/config/active", 500, time.Millisecond)
	c.RecordTokens("openai/gpt-4o-mini", 12, 34)
	c.RecordPublish(7)
	c.RecordConsistencyAnomaly()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		`metaweb_requests_total{method="POST",path="/chat",status="2xx"} 1`,
		`metaweb_requests_total{method="GET",path="/config/active",status="5xx"} 1`,
		`metaweb_completion_tokens_total{model="openai/gpt-4o-mini",type="completion"} 34`,
		`metaweb_config_publishes_total 1`,
		`metaweb_active_config_version 7`,
		`metaweb_config_consistency_anomalies_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Scrape output missing %q", want)
		}
	}
}

// TestStatusLabel tests the status bucket mapping.
func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "2xx"},
		{201, "2xx"},
		{302, "3xx"},
		{404, "4xx"},
		{502, "5xx"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.status); got != tt.want {
			t.Errorf("statusLabel(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
