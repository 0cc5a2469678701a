package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/factlens/internal/util"
)

// maxResponseBytes bounds how much of an endpoint reply is read
const maxResponseBytes = 4 << 20

// jsonEndpoint talks JSON to a single HTTP API
type jsonEndpoint struct {
	provider string
	baseURL  string
	headers  http.Header
	client   *http.Client

	// errorMessage extracts a readable message from a non-200 body; "" falls back to the raw body
	errorMessage func(body []byte) string
}

func newJSONEndpoint(provider, baseURL string, timeout time.Duration, cfg Config) *jsonEndpoint {
	return &jsonEndpoint{
		provider: provider,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		headers:  make(http.Header),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
	}
}

// call sends in (nil for no body) to path and decodes the reply into out (nil to discard)
func (e *jsonEndpoint) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for key, values := range e.headers {
		req.Header[key] = values
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := ""
		if e.errorMessage != nil {
			msg = e.errorMessage(respBody)
		}
		if msg == "" {
			msg = strings.TrimSpace(string(respBody))
		}
		return &StatusError{Provider: e.provider, StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func timeoutOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
