// Package httprequest provides HTTP request node implementation for workflow graph execution.
package httprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/graphion-dev/graphion/pkg/models"
	"github.com/graphion-dev/graphion/pkg/protocol"
	"github.com/graphion-dev/graphion/pkg/template"
)

const (
	OutputPortSuccess = "success"
	OutputPortError   = "error"
	InputPortMain     = "main"
)

// HTTPRequestNode performs an HTTP call and exposes the response downstream.
type HTTPRequestNode struct {
	id      string
	url     string
	method  string
	headers map[string]string
	body    string
	timeout time.Duration
	retries int
	client  *http.Client
}

// NewHTTPRequestNode creates a new HTTP request node.
func NewHTTPRequestNode(id string, config map[string]any) (*HTTPRequestNode, error) {
	url, ok := config["url"].(string)
	if !ok || url == "" {
		return nil, errors.New("missing required field 'url'")
	}

	method := http.MethodGet
	if m, ok := config["method"].(string); ok && m != "" {
		method = strings.ToUpper(m)
	}

	headers := map[string]string{}
	if raw, ok := config["headers"].(map[string]any); ok {
		for key, value := range raw {
			headers[key] = fmt.Sprintf("%v", value)
		}
	}

	body := ""
	if b, ok := config["body"].(string); ok {
		body = b
	}

	timeout := 30 * time.Second
	if t, ok := config["timeout"].(float64); ok && t > 0 {
		timeout = time.Duration(t) * time.Second
	}

	retries := 0
	if r, ok := config["retries"].(float64); ok && r > 0 {
		retries = int(r)
	}

	return &HTTPRequestNode{
		id:      id,
		url:     url,
		method:  method,
		headers: headers,
		body:    body,
		timeout: timeout,
		retries: retries,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// ID returns the node ID.
func (n *HTTPRequestNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *HTTPRequestNode) Type() string {
	return "httprequest"
}

// Initialize prepares the node for execution.
func (n *HTTPRequestNode) Initialize(_ context.Context) error {
	return nil
}

// Execute renders the URL and body templates, performs the request with the
// configured retry count, and routes the response to the success or error port.
func (n *HTTPRequestNode) Execute(ctx context.Context, nodeCtx protocol.NodeContext) (map[string]models.NodeResult, error) {
	renderedURL, err := template.RenderWithContext(n.url, nodeCtx)
	if err != nil {
		return n.createErrorResult(fmt.Sprintf("failed to render url template: %v", err), 0), nil
	}

	url := fmt.Sprintf("%v", renderedURL)

	body := n.body
	if body != "" {
		rendered, err := template.RenderWithContext(body, nodeCtx)
		if err != nil {
			return n.createErrorResult(fmt.Sprintf("failed to render body template: %v", err), 0), nil
		}

		switch value := rendered.(type) {
		case string:
			body = value
		default:
			encoded, err := json.Marshal(value)
			if err != nil {
				return n.createErrorResult(fmt.Sprintf("failed to encode request body: %v", err), 0), nil
			}

			body = string(encoded)
		}
	}

	var lastErr error

	for attempt := 0; attempt <= n.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return n.createErrorResult(ctx.Err().Error(), 0), nil
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		result, err := n.doRequest(ctx, url, body)
		if err == nil {
			return result, nil
		}

		lastErr = err

		nodeCtx.Logger().Warn("http request attempt failed",
			"node_id", n.id, "attempt", attempt+1, "error", err)
	}

	return n.createErrorResult(lastErr.Error(), 0), nil
}

func (n *HTTPRequestNode) doRequest(ctx context.Context, url, body string) (map[string]models.NodeResult, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, n.method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for key, value := range n.headers {
		req.Header.Set(key, value)
	}

	if body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		parsed = string(raw)
	}

	headers := map[string]string{}
	for key := range resp.Header {
		headers[key] = resp.Header.Get(key)
	}

	data := map[string]any{
		"status_code": resp.StatusCode,
		"body":        parsed,
		"headers":     headers,
		"url":         url,
		"method":      n.method,
	}

	if resp.StatusCode >= 400 {
		return map[string]models.NodeResult{
			OutputPortError: {
				NodeID: n.id,
				Data:   data,
				Status: models.ResultStatusError,
				Error:  fmt.Sprintf("http status %d", resp.StatusCode),
			},
		}, nil
	}

	return map[string]models.NodeResult{
		OutputPortSuccess: {
			NodeID: n.id,
			Data:   data,
			Status: models.ResultStatusSuccess,
		},
	}, nil
}

// Cleanup releases node resources.
func (n *HTTPRequestNode) Cleanup(_ context.Context) error {
	n.client.CloseIdleConnections()
	return nil
}

func (n *HTTPRequestNode) createErrorResult(errorMessage string, statusCode int) map[string]models.NodeResult {
	return map[string]models.NodeResult{
		OutputPortError: {
			NodeID: n.id,
			Data: map[string]any{
				"error":       errorMessage,
				"status_code": statusCode,
				"success":     false,
			},
			Status: models.ResultStatusError,
			Error:  errorMessage,
		},
	}
}
