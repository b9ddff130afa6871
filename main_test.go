package main

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FibresApp/vibecode-ai-backend/config"
	"github.com/FibresApp/vibecode-ai-backend/handlers"
	"github.com/FibresApp/vibecode-ai-backend/service"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               "3000",
		AllowedOrigins:     "*",
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 3,
		LLMProvider:        config.ProviderStub,
		ProviderTimeout:    5 * time.Second,
		SingleMaxTokens:    1000,
		CompareMaxTokens:   1600,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, err := newClient(cfg)
	require.NoError(t, err)

	analyzer := service.NewAnalyzer(client, service.Options{
		SingleMaxTokens:  cfg.SingleMaxTokens,
		CompareMaxTokens: cfg.CompareMaxTokens,
		Timeout:          cfg.ProviderTimeout,
	})
	return setupRouter(cfg, handlers.NewHandlers(analyzer))
}

func analyzeBody() string {
	return `{"imageBase64":"` + base64.StdEncoding.EncodeToString([]byte("photo")) + `"}`
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		provider string
		source   string
		wantErr  bool
	}{
		{config.ProviderOpenAI, "OpenAI", false},
		{config.ProviderGemini, "Gemini", false},
		{config.ProviderStub, "Stub", false},
		{"claude", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := testConfig()
			cfg.LLMProvider = tt.provider
			cfg.OpenAIAPIKey = "sk-test"
			cfg.GeminiAPIKey = "g-test"

			client, err := newClient(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.source, client.SourceName())
		})
	}
}

func TestRouter_HealthRoutes(t *testing.T) {
	router := newTestRouter(t, testConfig())

	for _, path := range []string{EndPointRoot, EndPointHealth} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `"status":"ok"`, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"), path)
	}
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(t, testConfig())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, EndPointMetrics, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_MetricsGzippedOnce(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, EndPointMetrics, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRouter_AnalyzeWithStub(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, EndPointAnalyzePhoto, strings.NewReader(analyzeBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"overall"`)
}

func TestRouter_Gzip(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, EndPointHealth, nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, EndPointComparePhotos, nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	router := newTestRouter(t, cfg)

	body := bytes.Repeat([]byte("a"), 1024)
	req := httptest.NewRequest(http.MethodPost, EndPointAnalyzePhoto, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_ChunkedBodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	router := newTestRouter(t, cfg)

	body := `{"imageBase64":"` + strings.Repeat("a", 1024) + `"}`
	req := httptest.NewRequest(http.MethodPost, EndPointAnalyzePhoto, io.NopCloser(strings.NewReader(body)))
	req.ContentLength = -1
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "Request body too large")
}

func TestRouter_RateLimitOnlyOnPhotoRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 1
	router := newTestRouter(t, cfg)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, EndPointDescribePhoto, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, EndPointHealth, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestSetupLogging_UnknownLevel(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "chatty"
	cfg.LogFormat = "json"

	assert.NotPanics(t, func() { setupLogging(cfg) })
	setupLogging(testConfig())
}
