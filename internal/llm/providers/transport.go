package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"prassi/internal/config"
	httputil "prassi/internal/http"
	llmerrors "prassi/internal/llm/errors"
)

func newModelHTTPClient(cfg *config.Config) *http.Client {
	return httputil.NewHTTPClient(httputil.HTTPClientOptions{
		Timeout:       time.Duration(cfg.ModelTimeoutSeconds) * time.Second,
		SkipSSLVerify: cfg.ModelSkipSSLVerify,
		UserAgent:     httputil.DefaultUserAgent,
	})
}

// doJSON sends payload (nil for GET) and returns the raw response body.
// Non-2xx responses are classified into the typed errors of the llm/errors package.
func doJSON(ctx context.Context, client *http.Client, provider, method, url string, headers map[string]string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		slog.Debug("Model API request", "provider", provider, "url", url, "bytes", len(jsonData))
		reqBody = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, llmerrors.FromResponse(provider, resp.StatusCode, resp.Header, body)
	}

	return body, nil
}
