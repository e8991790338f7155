package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			URLs []string `json:"urls"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"https://example.com/article"}, req.URLs)

		w.Write([]byte(`{"results":[{"url":"https://example.com/article","raw_content":"Article text.","favicon":"https://example.com/fav.ico"}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.ChangeBaseURL(srv.URL)

	got, err := c.Extract(context.Background(), "https://example.com/article")
	require.NoError(t, err)
	assert.Equal(t, "Article text.", got.RawContent)
	assert.Equal(t, "https://example.com/article", got.URL)
	assert.Equal(t, "https://example.com/fav.ico", got.Favicon)
}

func TestExtractFailedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[],"failed_results":[{"url":"https://x","error":"page unreachable"}]}`))
	}))
	defer srv.Close()

	c := NewClient("k")
	c.ChangeBaseURL(srv.URL)

	_, err := c.Extract(context.Background(), "https://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page unreachable")
}

func TestExtractBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient("k")
	c.ChangeBaseURL(srv.URL)

	_, err := c.Extract(context.Background(), "https://x")
	assert.Error(t, err)
}
