package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	m := New()
	m.RecordHTTPRequest("get", "/", http.StatusOK, 10*time.Millisecond)
	m.RecordHTTPRequest("GET", "/", http.StatusOK, 20*time.Millisecond)
	m.RecordHTTPRequest("GET", "/wp-login.php", http.StatusNotFound, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "other", "404")))
}

func TestRecordLLMRequest(t *testing.T) {
	m := New()
	m.RecordLLMRequest("claude", "smart_rfq", true, time.Second)
	m.RecordLLMRequest("claude", "smart_rfq", false, time.Second)
	m.RecordLLMRequest("gemini", "", true, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("claude", "smart_rfq", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("claude", "smart_rfq", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequests.WithLabelValues("gemini", "unknown", "success")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncInFlight()
		m.DecInFlight()
		m.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
		m.RecordLLMRequest("claude", "ai_chat", true, time.Millisecond)
		m.RecordInquiry("en", true)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.RecordInquiry("zh", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `skylane_inquiries_total{lang="zh",status="stored"} 1`)
}

func TestRoute(t *testing.T) {
	assert.Equal(t, "/api/ai-chat", Route("/api/ai-chat"))
	assert.Equal(t, "/static", Route("/static/js/smart_rfq.js"))
	assert.Equal(t, "/api/other", Route("/api/unknown"))
	assert.Equal(t, "other", Route("/favicon.ico"))
}
