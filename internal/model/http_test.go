package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientPredict(t *testing.T) {
	var got predictRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(Prediction{Score: 6.4, Intensity: "moderate", Text: "Go steady."})
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPConfig{URL: srv.URL, Timeout: time.Second})
	require.NoError(t, err)

	pred, err := c.Predict(context.Background(), history(3))
	require.NoError(t, err)
	assert.Equal(t, 6.4, pred.Score)
	assert.Equal(t, "Go steady.", pred.Text)
	assert.Len(t, got.History, 3)
}

func TestHTTPClientRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"score out of range", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"score": 14}`))
		}},
		{"unknown intensity", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"score": 5, "intensity": "extreme"}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c, err := NewHTTPClient(HTTPConfig{URL: srv.URL})
			require.NoError(t, err)

			_, err = c.Predict(context.Background(), history(2))
			assert.ErrorIs(t, err, ErrModelUnavailable)
		})
	}
}

func TestHTTPClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Predict(context.Background(), history(2))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestHTTPClientBreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewHTTPClient(HTTPConfig{URL: srv.URL})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := c.Predict(context.Background(), history(1))
		assert.ErrorIs(t, err, ErrModelUnavailable)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls), "breaker should stop calls after 3 consecutive failures")
}

func TestNewHTTPClientRequiresURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	assert.Error(t, err)
}
