// Package httpapi holds the HTTP read tiers of the relay (message API and
// gateway) and the best-effort tracker.
package httpapi

import (
	"chat-relay/errors"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxBodySize = 4 << 20

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// get performs a GET and returns the body of a 2xx response.
func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodySize))
	if err != nil {
		return nil, err
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s returned %d", errors.ErrUnexpectedStatus, url, response.StatusCode)
	}
	return body, nil
}

func trimBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
