package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/i18n", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Data   json.RawMessage `json:"data"`
			Locale struct {
				Source string `json:"source"`
				Target string `json:"target"`
			} `json:"locale"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "en", req.Locale.Source)
		assert.Equal(t, "es", req.Locale.Target)
		assert.JSONEq(t, `{"greeting":"Hello"}`, string(req.Data))

		w.Write([]byte(`{"data":{"greeting":"Hola"}}`))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.ChangeBaseURL(srv.URL)

	got, err := c.Localize(context.Background(), json.RawMessage(`{"greeting":"Hello"}`), "en", "es")
	require.NoError(t, err)
	assert.JSONEq(t, `{"greeting":"Hola"}`, string(got))
}

func TestLocalizeBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k")
	c.ChangeBaseURL(srv.URL)

	_, err := c.Localize(context.Background(), json.RawMessage(`{}`), "en", "fr")
	assert.Error(t, err)
}
