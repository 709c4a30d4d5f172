package apiclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Client is a handle for issuing requests below a fixed root address.
type Client struct {
	baseURL string
	resty   *resty.Client
	logger  *slog.Logger
}

// BaseURL returns the root address the handle was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient exposes the underlying http.Client, e.g. to install a custom transport in tests.
func (c *Client) HTTPClient() *http.Client {
	return c.resty.GetClient()
}

// Get issues a GET request for path (relative to the handle root) and decodes the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.Do(ctx, http.MethodGet, path, nil, result)
}

// Post sends body as JSON to path and decodes the JSON response into result.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, body, result)
}

// Do issues a request through the handle. body is sent as JSON when not nil and result,
// when not nil, receives the decoded response.
// Errors are always *ClientError.
func (c *Client) Do(ctx context.Context, method, path string, body, result any) error {
	req := c.resty.R().SetContext(ctx)

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return NewClientInternalError(err, "marshaling request body")
		}
		req.SetHeader("Content-Type", "application/json").SetBody(jsonData)
	}

	// resty trims a trailing slash from its base URL, so the root is applied here
	res, err := req.Execute(method, c.baseURL+path)
	if err != nil {
		return NewClientConnectionError(err)
	}

	if res.IsError() {
		return NewClientApiError(res)
	}

	if result == nil || len(res.Body()) == 0 {
		return nil
	}

	if err := json.Unmarshal(res.Body(), result); err != nil {
		return NewClientInternalError(err, "decoding "+method+" "+path+" response")
	}
	return nil
}

func (c *Client) logResponse(_ *resty.Client, res *resty.Response) error {
	c.logger.Debug("orion api request",
		slog.String("component", "apiclient"),
		slog.String("method", res.Request.Method),
		slog.String("url", res.Request.URL),
		slog.Int("status", res.StatusCode()),
		slog.Duration("duration", res.Time()),
	)
	return nil
}
