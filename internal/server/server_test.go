package server

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/app"
	"github.com/ternarybob/skylane/internal/common"
)

func newTestServer(t *testing.T, configure func(cfg *common.Config)) *Server {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Storage.Badger.Path = t.TempDir()
	cfg.Claude.APIKey = ""
	if configure != nil {
		configure(cfg)
	}

	application, err := app.New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { application.Close() })

	return New(application)
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Pages(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/", "/?lang=zh", "/wechat", "/dashboard"} {
		rec := serve(s, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), path)
	}

	rec := serve(s, httptest.NewRequest("GET", "/static/js/smart_rfq.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SkyLaneSmartRFQ")

	rec = serve(s, httptest.NewRequest("GET", "/static/js/bgfx.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bgfx-canvas")

	rec = serve(s, httptest.NewRequest("GET", "/not-a-page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoutes_UnknownAPIIsJSON(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest("GET", "/api/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rec.Body.String(), `"path":"/api/unknown"`)
}

func TestRoutes_AIEndpointsWithoutKey(t *testing.T) {
	s := newTestServer(t, nil)

	rec := serve(s, httptest.NewRequest("POST", "/api/smart-rfq", strings.NewReader(`{"product":"tools"}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"ANTHROPIC_API_KEY is not set on the server"}`, rec.Body.String())

	rec = serve(s, httptest.NewRequest("POST", "/api/ai-chat", strings.NewReader(`{"messages":[]}`)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRoutes_AIEndpointsDisabled(t *testing.T) {
	s := newTestServer(t, func(cfg *common.Config) {
		cfg.Site.EnableAIChat = false
		cfg.Site.EnableSmartRFQ = false
	})

	rec := serve(s, httptest.NewRequest("POST", "/api/smart-rfq", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Smart RFQ is disabled"}`, rec.Body.String())

	rec = serve(s, httptest.NewRequest("POST", "/api/ai-chat", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"AI chat is disabled"}`, rec.Body.String())
}

func TestContactFlow_StoresAndShowsOnDashboard(t *testing.T) {
	s := newTestServer(t, nil)

	form := url.Values{"name": {"Anna"}, "company": {"Berlin Tools GmbH"}, "message": {"Catalog site"}, "lang": {"en"}}
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(s, req)
	require.Equal(t, http.StatusFound, rec.Code)

	location, _, _ := strings.Cut(rec.Header().Get("Location"), "#")
	assert.Equal(t, "/?lang=en", location)

	landing := httptest.NewRequest("GET", location, nil)
	for _, c := range rec.Result().Cookies() {
		landing.AddCookie(c)
	}
	page := serve(s, landing)
	assert.Contains(t, page.Body.String(), "Thanks Anna! Your inquiry has been sent.")

	dash := serve(s, httptest.NewRequest("GET", "/api/dashboard", nil))
	require.Equal(t, http.StatusOK, dash.Code)
	assert.Contains(t, dash.Body.String(), `"inquiries_total":1`)
	assert.Contains(t, dash.Body.String(), "Berlin Tools GmbH")
}

func TestRateLimit_ReturnsTooManyRequests(t *testing.T) {
	s := newTestServer(t, func(cfg *common.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMinute = 1
		cfg.RateLimit.Burst = 2
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/smart-rfq", strings.NewReader(`{}`))
		req.RemoteAddr = "198.51.100.7:4000"
		last = serve(s, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, last.Body.String())
	assert.Equal(t, "60", last.Header().Get("Retry-After"))

	// Other clients are unaffected
	req := httptest.NewRequest("POST", "/api/smart-rfq", strings.NewReader(`{}`))
	req.RemoteAddr = "198.51.100.8:4000"
	assert.NotEqual(t, http.StatusTooManyRequests, serve(s, req).Code)

	// Pages are never limited
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		assert.Equal(t, http.StatusOK, serve(s, req).Code)
	}
}

func TestRateLimit_IgnoresSpoofedForwardedFor(t *testing.T) {
	s := newTestServer(t, func(cfg *common.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMinute = 1
		cfg.RateLimit.Burst = 1
	})

	limited := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/api/smart-rfq", strings.NewReader(`{}`))
		req.RemoteAddr = "198.51.100.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("192.0.2.%d", i+1))
		if serve(s, req).Code == http.StatusTooManyRequests {
			limited++
		}
	}

	assert.Equal(t, 19, limited)
	assert.Equal(t, 1, s.limiter.size())
}

func TestRateLimit_TrustedProxyForwardsClient(t *testing.T) {
	s := newTestServer(t, func(cfg *common.Config) {
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerMinute = 1
		cfg.RateLimit.Burst = 1
		cfg.RateLimit.TrustedProxies = []string{"10.0.0.0/8"}
	})

	post := func(client string) int {
		req := httptest.NewRequest("POST", "/api/smart-rfq", strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.5:8080"
		req.Header.Set("X-Forwarded-For", client)
		return serve(s, req).Code
	}

	assert.NotEqual(t, http.StatusTooManyRequests, post("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, post("203.0.113.1"))
	assert.NotEqual(t, http.StatusTooManyRequests, post("203.0.113.2"))

	// A spoofed left hop does not change the key
	assert.Equal(t, http.StatusTooManyRequests, post("6.6.6.6, 203.0.113.1"))
	assert.Equal(t, 2, s.limiter.size())
}

func TestCompression_Brotli(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rec := serve(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "br", rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Encoding")

	body, err := io.ReadAll(brotli.NewReader(rec.Body))
	require.NoError(t, err)
	assert.Contains(t, string(body), "Website packages")

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec = serve(s, req)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Contains(t, rec.Body.String(), "Website packages")
}

func TestAcceptsBrotli(t *testing.T) {
	assert.True(t, acceptsBrotli("br"))
	assert.True(t, acceptsBrotli("gzip, deflate, br;q=0.8"))
	assert.False(t, acceptsBrotli("br;q=0"))
	assert.False(t, acceptsBrotli("gzip"))
	assert.False(t, acceptsBrotli(""))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	serve(s, httptest.NewRequest("GET", "/wechat", nil))
	rec := serve(s, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `skylane_http_requests_total{method="GET",route="/wechat",status="200"} 1`)
}

func TestRecoveryMiddleware(t *testing.T) {
	s := newTestServer(t, nil)

	handler := s.recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(10, 1, nil, arbor.NewLogger())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(limiterIdleTTL / 2)
	rl.getLimiter("b")
	require.Equal(t, 2, rl.size())

	now = now.Add(limiterIdleTTL/2 + time.Second)
	rl.Cleanup()
	assert.Equal(t, 1, rl.size())

	rl.StartCleanup(time.Hour)
	rl.Stop()
	rl.Stop()
}
