package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/myreport/reportcycle/internal/common"
	"github.com/myreport/reportcycle/internal/logging"
)

// Client is a small JSON-over-HTTP client bound to one service base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewClient returns a Client for baseURL. A nil httpClient gets a client
// with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client, logger logging.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// request describes one service call. ok lists the accepted statuses; an
// empty list accepts any 2xx.
type request struct {
	method   string
	path     string
	query    url.Values
	token    string
	body     any
	out      any
	ok       []int
	fallback string
}

func (c *Client) accepted(r request, status int) bool {
	if len(r.ok) == 0 {
		return status >= 200 && status < 300
	}
	return slices.Contains(r.ok, status)
}

func (c *Client) do(ctx context.Context, r request) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "request failed", "method", r.method, "path", r.path, "error", err)
		return fmt.Errorf("%w: %s %s: %v", ErrNetwork, r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s %s: %v", ErrNetwork, r.method, r.path, err)
	}

	if !c.accepted(r, resp.StatusCode) {
		var eb ErrorBody
		_ = json.Unmarshal(data, &eb)
		apiErr := &APIError{Status: resp.StatusCode, Message: CombineErrors(eb, r.fallback)}
		c.logger.Debug(ctx, "service rejected request", "method", r.method, "path", r.path, "status", resp.StatusCode)
		return apiErr
	}

	if r.out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, r.out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}
