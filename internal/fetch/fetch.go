// Package fetch provides shared HTTP plumbing for the remote collaborators:
// a pre-configured client, JSON GET with one retry on transient failures, a
// small TTL cache, and a token-bucket rate limiter.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrHTTP wraps an HTTP error response.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Client is a pre-configured HTTP client with a bounded timeout.
var Client = &http.Client{
	Timeout: 30 * time.Second,
}

// GetJSON performs a GET request and decodes the JSON body into out. A
// transport-level failure is retried once; HTTP error statuses are not.
func GetJSON(ctx context.Context, client *http.Client, url string, out any) error {
	if client == nil {
		client = Client
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP GET %s: %w", url, err)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			resp.Body.Close()
			return &ErrHTTP{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode %s: %w", url, err)
		}
		return nil
	}
	return lastErr
}
