package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/malik-aiplanet/agentflow/logging"
)

const defaultTimeout = 15 * time.Second

// Client aggregates the per-resource gateways behind one base URL and HTTP
// client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger

	// Inputs manages task input resources.
	Inputs *Resource[Input]
	// Outputs manages task output resources.
	Outputs *Resource[Output]
	// Agents manages participant agent resources.
	Agents *Resource[Agent]
	// Terminations manages termination condition resources.
	Terminations *Resource[Termination]
	// Runs manages run resources and cancellation.
	Runs *RunsGateway
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient constructs a gateway client rooted at baseURL.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(c)
	}
	c.Inputs = &Resource[Input]{client: c, path: "/inputs", name: "inputs"}
	c.Outputs = &Resource[Output]{client: c, path: "/outputs", name: "outputs"}
	c.Agents = &Resource[Agent]{client: c, path: "/agents", name: "agents"}
	c.Terminations = &Resource[Termination]{client: c, path: "/terminations", name: "terminations"}
	c.Runs = &RunsGateway{Resource: Resource[RunResource]{client: c, path: "/runs", name: "runs"}}
	return c
}

// Resource is the shared CRUD surface over one collaborator resource type.
type Resource[T any] struct {
	client *Client
	path   string
	name   string
}

// GetAll lists resources matching the given filters, paginated.
func (r *Resource[T]) GetAll(ctx context.Context, filters map[string]string) (Page[T], error) {
	var page Page[T]
	q := url.Values{}
	for k, v := range filters {
		q.Set(k, v)
	}
	err := r.client.do(ctx, http.MethodGet, r.path, q, nil, &page)
	r.client.logger.Debug("listed resources", "resource", r.name, "total", page.Total)
	return page, err
}

// GetByID fetches a single resource, failing with ErrNotFound when absent.
func (r *Resource[T]) GetByID(ctx context.Context, id string) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// Create stores a new resource built from data and returns the stored form.
func (r *Resource[T]) Create(ctx context.Context, data any) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodPost, r.path, nil, data, &out)
	return out, err
}

// Update replaces the resource identified by id and returns the stored form.
func (r *Resource[T]) Update(ctx context.Context, id string, data any) (T, error) {
	var out T
	err := r.client.do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), nil, data, &out)
	return out, err
}

// Delete removes a resource. permanent=false is a soft delete; true is
// irreversible.
func (r *Resource[T]) Delete(ctx context.Context, id string, permanent bool) error {
	q := url.Values{}
	q.Set("permanent", strconv.FormatBool(permanent))
	return r.client.do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), q, nil, nil)
}

// RunsGateway extends the standard CRUD surface with run cancellation.
type RunsGateway struct {
	Resource[RunResource]
}

// Cancel requests server-side cancellation of an in-flight run.
func (g *RunsGateway) Cancel(ctx context.Context, id string) error {
	return g.client.do(ctx, http.MethodPost, g.path+"/"+url.PathEscape(id)+"/cancel", nil, nil, nil)
}

// do performs one JSON request/response cycle. Transport errors are returned
// wrapped, 404 maps to ErrNotFound, and any other non-2xx status becomes an
// *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gateway request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("gateway: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("gateway request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}
