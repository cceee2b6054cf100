package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageFetcher_FetchText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		switch r.URL.Path {
		case "/recipe":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body><h1>Pancakes</h1></body></html>"))
		case "/huge":
			_, _ = w.Write([]byte(strings.Repeat("a", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewPageFetcher(srv.Client())

	t.Run("returns body", func(t *testing.T) {
		body, err := f.FetchText(context.Background(), srv.URL+"/recipe")
		require.NoError(t, err)
		assert.Contains(t, body, "Pancakes")
	})

	t.Run("non 2xx is an error", func(t *testing.T) {
		_, err := f.FetchText(context.Background(), srv.URL+"/missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("body over limit", func(t *testing.T) {
		small := &PageFetcher{client: srv.Client(), maxBytes: 16}
		_, err := small.FetchText(context.Background(), srv.URL+"/huge")
		assert.ErrorIs(t, err, ErrPageTooLarge)
	})

	t.Run("rejects other schemes", func(t *testing.T) {
		for _, u := range []string{"ftp://example.com/r", "file:///etc/passwd", "not a url", ""} {
			_, err := f.FetchText(context.Background(), u)
			assert.Error(t, err, u)
		}
	})

	t.Run("honours context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.FetchText(ctx, srv.URL+"/recipe")
		assert.ErrorIs(t, err, context.Canceled)
	})
}
