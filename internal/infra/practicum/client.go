// Package practicum talks to the Practicum homework status API.
package practicum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"homework_status_bot/internal/domain/homework"
)

// DefaultEndpoint is the production homework status URL.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

const maxResponseBodySize = 1 << 20 // 1MB

// Client fetches homework statuses changed since a cursor.
//
// Timeouts are applied per request via context, the underlying http.Client
// has none of its own.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	timeout    time.Duration
	now        func() time.Time
}

// NewClient creates a Client for endpoint authenticated with an OAuth token.
func NewClient(endpoint, token string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{},
		endpoint:   endpoint,
		token:      token,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Fetch asks for homeworks updated since cursor (Unix seconds).
// A zero cursor means "now". The decoded body is returned as is; its shape
// is checked by homework.Validate.
func (c *Client) Fetch(ctx context.Context, cursor int64) (any, error) {
	if cursor == 0 {
		cursor = c.now().Unix()
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(cursor, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The caller going away is not a remote failure.
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, err
		}
		return nil, &homework.ConnectionError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBodySize))
		return nil, &homework.RemoteUnavailableError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, &homework.ConnectionError{Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, &homework.ShapeError{Reason: fmt.Sprintf("body is not valid JSON: %v", err)}
	}
	return decoded, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}
