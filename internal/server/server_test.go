package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/horvbalint/recet/config"
	"github.com/horvbalint/recet/internal/api"
	"github.com/horvbalint/recet/internal/metrics"
	"github.com/horvbalint/recet/internal/mocks"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		ServerHost:         "127.0.0.1",
		ServerPort:         "0",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
	reg := prometheus.NewRegistry()
	metrics.NewCollector(reg)

	return New(cfg, api.Dependencies{
		Extractor: new(mocks.MockExtractor),
		Drafts:    new(mocks.MockDraftService),
		Auth:      new(mocks.MockAuthService),
	}, reg, nil)
}

func TestNew(t *testing.T) {
	srv := testServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// image routes are off without an image service
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/images/normalize", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
