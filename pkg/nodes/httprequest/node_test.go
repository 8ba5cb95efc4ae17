package httprequest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/graphion-dev/graphion/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRequestNode_SuccessfulGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer server.Close()

	node, err := NewHTTPRequestNode("http", map[string]any{"url": server.URL})
	require.NoError(t, err)

	result, err := node.Execute(context.Background(), testutil.NewNodeContext(nil))

	require.NoError(t, err)
	require.Contains(t, result, OutputPortSuccess)

	data := result[OutputPortSuccess].Data
	assert.Equal(t, 200, data["status_code"])
	assert.Equal(t, map[string]any{"ok": true}, data["body"])
}

func TestHTTPRequestNode_PostWithRenderedBody(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	node, err := NewHTTPRequestNode("http", map[string]any{
		"url":    server.URL,
		"method": "post",
		"body":   `{"name": "{{.inputs.main.name}}"}`,
	})
	require.NoError(t, err)

	nodeCtx := testutil.NewNodeContext(map[string]any{
		"main": map[string]any{"name": "ada"},
	})

	result, err := node.Execute(context.Background(), nodeCtx)

	require.NoError(t, err)
	require.Contains(t, result, OutputPortSuccess)
	assert.Equal(t, map[string]any{"name": "ada"}, received)
	assert.Equal(t, 201, result[OutputPortSuccess].Data["status_code"])
}

func TestHTTPRequestNode_ErrorStatusRoutesToErrorPort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	node, err := NewHTTPRequestNode("http", map[string]any{"url": server.URL})
	require.NoError(t, err)

	result, err := node.Execute(context.Background(), testutil.NewNodeContext(nil))

	require.NoError(t, err)
	require.Contains(t, result, OutputPortError)
	assert.NotContains(t, result, OutputPortSuccess)
	assert.Equal(t, 503, result[OutputPortError].Data["status_code"])
	assert.Contains(t, result[OutputPortError].Error, "http status 503")
}

func TestHTTPRequestNode_RetriesOnTransportFailure(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	node, err := NewHTTPRequestNode("http", map[string]any{
		"url":     server.URL,
		"retries": 2.0,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// With the context already cancelled the retry backoff aborts immediately
	// after the first failed attempt.
	result, err := node.Execute(ctx, testutil.NewNodeContext(nil))

	require.NoError(t, err)
	require.Contains(t, result, OutputPortError)
	assert.Zero(t, calls.Load())
}

func TestNewHTTPRequestNode_RequiresURL(t *testing.T) {
	_, err := NewHTTPRequestNode("http", map[string]any{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "url")
}
