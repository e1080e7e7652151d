// Package client implements the service-to-service HTTP channel. Every call
// carries the shared internal secret; the acting subject travels in the
// X-User-Id header so elevated operations stay attributable.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/farekit/transit-service/internal/auth"
)

type internalClient struct {
	httpClient *http.Client
	baseURL    string
	secret     string
}

func newInternalClient(baseURL, secret string) internalClient {
	return internalClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		secret:     secret,
	}
}

// doJSON performs a JSON request over the internal channel and decodes the
// response into result when the status is 2xx. The HTTP status is returned
// either way so callers can translate peer outcomes into domain errors.
func (c internalClient) doJSON(ctx context.Context, method, path, actingUserID string, body, result any) (int, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderInternalSecret, c.secret)
	if actingUserID != "" {
		req.Header.Set(auth.HeaderUserID, actingUserID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return resp.StatusCode, nil
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response body: %w", err)
		}
	}
	return resp.StatusCode, nil
}
