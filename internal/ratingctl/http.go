package ratingctl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	service "github.com/okian/starrating/internal/app"
)

// ErrStatus reports an unexpected HTTP status.
var ErrStatus = errors.New("unexpected status")

// HTTPClient talks to the widget API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client with a request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Health checks that the service answers.
func (c *HTTPClient) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
}

// CreateWidget creates a widget and returns its first render.
func (c *HTTPClient) CreateWidget(ctx context.Context, body map[string]any) (service.Render, error) {
	var r service.Render
	err := c.do(ctx, http.MethodPost, "/widgets", body, http.StatusCreated, &r)
	return r, err
}

// DeleteWidget removes a widget.
func (c *HTTPClient) DeleteWidget(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/widgets/"+id, nil, http.StatusNoContent, nil)
}

// Click posts a click.
func (c *HTTPClient) Click(ctx context.Context, id string, star int, interactionID string) (service.Result, error) {
	var res service.Result
	body := map[string]any{"star": star, "interaction_id": interactionID}
	err := c.do(ctx, http.MethodPost, "/widgets/"+id+"/click", body, http.StatusOK, &res)
	return res, err
}

// Key posts a key press.
func (c *HTTPClient) Key(ctx context.Context, id, key, interactionID string) (service.Result, error) {
	var res service.Result
	body := map[string]any{"key": key, "interaction_id": interactionID}
	err := c.do(ctx, http.MethodPost, "/widgets/"+id+"/keys", body, http.StatusOK, &res)
	return res, err
}

// Changes fetches recent changes, newest first.
func (c *HTTPClient) Changes(ctx context.Context, id string, limit int) ([]service.Change, error) {
	var out []service.Change
	err := c.do(ctx, http.MethodGet, "/widgets/"+id+"/changes?limit="+strconv.Itoa(limit), nil, http.StatusOK, &out)
	return out, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%w: %s %s: %d %s", ErrStatus, method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
