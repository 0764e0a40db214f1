package ors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/route-planner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL, apiKey string) *client {
	logger, _ := zap.NewDevelopment()
	cfg := &config.ORSConfig{
		APIKey:         apiKey,
		BaseURL:        baseURL,
		RequestTimeout: 2 * time.Second,
	}
	return NewORSClient(cfg, logger).(*client)
}

func TestClient_Autocomplete(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/geocode/autocomplete", r.URL.Path)
			assert.Equal(t, "test_key", r.URL.Query().Get("api_key"))
			assert.Equal(t, "Zürich", r.URL.Query().Get("text"))
			assert.Equal(t, "5", r.URL.Query().Get("size"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"type":"FeatureCollection","features":[{"properties":{"label":"Zürich"}}]}`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, "test_key")

		result, err := c.Autocomplete(context.Background(), "Zürich", 0)
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(result, &decoded))
		assert.Equal(t, "FeatureCollection", decoded["type"])
	})

	t.Run("explicit size", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("size"))
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, "test_key")

		_, err := c.Autocomplete(context.Background(), "Bern", 3)
		require.NoError(t, err)
	})

	t.Run("missing api key", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		c := newTestClient(server.URL, "")

		_, err := c.Autocomplete(context.Background(), "Bern", 5)
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.False(t, called)
		assert.False(t, c.Configured())
	})
}

func TestClient_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("size"))
		w.Write([]byte(`{"features":[]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, "test_key")

	result, err := c.Geocode(context.Background(), "Bern", 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"features":[]}`, string(result))
}

func TestClient_Directions(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v2/directions/driving-car", r.URL.Path)
			assert.Equal(t, "test_key", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"coordinates":[[8.5402,47.3782],[7.4391,46.949]]}`, string(body))

			w.Write([]byte(`{"routes":[{"summary":{"distance":124543.6,"duration":5535.9}}]}`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, "test_key")

		result, err := c.Directions(context.Background(),
			[]float64{8.5402, 47.3782}, []float64{7.4391, 46.949}, "")
		require.NoError(t, err)
		assert.Contains(t, string(result), "124543.6")
	})

	t.Run("custom profile", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v2/directions/foot-walking", r.URL.Path)
			w.Write([]byte(`{"routes":[]}`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, "test_key")

		_, err := c.Directions(context.Background(), []float64{8.5, 47.3}, []float64{7.4, 46.9}, "foot-walking")
		require.NoError(t, err)
	})

	t.Run("upstream error is forwarded", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"Access to this API has been disallowed"}`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, "bad_key")

		_, err := c.Directions(context.Background(), []float64{8.5, 47.3}, []float64{7.4, 46.9}, "")
		require.Error(t, err)

		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusForbidden, upstream.StatusCode)
		assert.Contains(t, upstream.Body, "disallowed")
	})

	t.Run("invalid points", func(t *testing.T) {
		c := newTestClient("http://127.0.0.1:1", "test_key")

		_, err := c.Directions(context.Background(), []float64{8.5}, []float64{7.4, 46.9}, "")
		require.Error(t, err)
	})

	t.Run("unreachable provider", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		c := newTestClient(url, "test_key")

		_, err := c.Directions(context.Background(), []float64{8.5, 47.3}, []float64{7.4, 46.9}, "")
		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	})

	t.Run("invalid json from provider", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, "test_key")

		_, err := c.Directions(context.Background(), []float64{8.5, 47.3}, []float64{7.4, 46.9}, "")
		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusBadGateway, upstream.StatusCode)
	})
}
