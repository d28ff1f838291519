package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"noblejade/internal/models"
)

// listAllBatchSize is the page size used when draining a collection.
const listAllBatchSize = 200

// Client talks to the hosted record store over its REST API. Calls are
// one request/response exchange: no retries, store errors are surfaced
// unmodified.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	logger     *zerolog.Logger

	realtime *realtimeConn
}

func NewClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
	c.realtime = newRealtimeConn(c, logger)
	return c
}

// SetToken sets the auth token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type listResponse struct {
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalItems int              `json:"totalItems"`
	TotalPages int              `json:"totalPages"`
	Items      []map[string]any `json:"items"`
}

func (c *Client) List(ctx context.Context, collection string, page, perPage int, opts ListOptions) (ListResult, error) {
	q := optsQuery(opts)
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(perPage))

	var resp listResponse
	path := fmt.Sprintf("/api/collections/%s/records?%s", url.PathEscape(collection), q.Encode())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Page:       resp.Page,
		PerPage:    resp.PerPage,
		TotalItems: resp.TotalItems,
		TotalPages: resp.TotalPages,
		Items:      rawItems(resp.Items),
	}, nil
}

func (c *Client) ListAll(ctx context.Context, collection string, opts ListOptions) ([]models.Raw, error) {
	var out []models.Raw
	for page := 1; ; page++ {
		res, err := c.List(ctx, collection, page, listAllBatchSize, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, res.Items...)
		if page >= res.TotalPages || len(res.Items) == 0 {
			return out, nil
		}
	}
}

func (c *Client) GetOne(ctx context.Context, collection, id string, opts ListOptions) (models.Raw, error) {
	var rec map[string]any
	path := fmt.Sprintf("/api/collections/%s/records/%s?%s",
		url.PathEscape(collection), url.PathEscape(id), optsQuery(opts).Encode())
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &rec); err != nil {
		return nil, err
	}
	return models.Raw(rec), nil
}

func (c *Client) GetFirst(ctx context.Context, collection, filter string, opts ListOptions) (models.Raw, error) {
	opts.Filter = filter
	res, err := c.List(ctx, collection, 1, 1, opts)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("%s (%s): %w", collection, filter, ErrNotFound)
	}
	return res.Items[0], nil
}

func (c *Client) Create(ctx context.Context, collection string, data map[string]any) (models.Raw, error) {
	var rec map[string]any
	path := fmt.Sprintf("/api/collections/%s/records", url.PathEscape(collection))
	if err := c.doJSON(ctx, http.MethodPost, path, data, &rec); err != nil {
		return nil, err
	}
	return models.Raw(rec), nil
}

func (c *Client) Update(ctx context.Context, collection, id string, data map[string]any) (models.Raw, error) {
	var rec map[string]any
	path := fmt.Sprintf("/api/collections/%s/records/%s", url.PathEscape(collection), url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPatch, path, data, &rec); err != nil {
		return nil, err
	}
	return models.Raw(rec), nil
}

func (c *Client) Delete(ctx context.Context, collection, id string) error {
	path := fmt.Sprintf("/api/collections/%s/records/%s", url.PathEscape(collection), url.PathEscape(id))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) Subscribe(ctx context.Context, collection, target string, fn EventHandler) (Subscription, error) {
	if target == "" {
		target = "*"
	}
	return c.realtime.subscribe(ctx, collection+"/"+target, fn)
}

func optsQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Expand != "" {
		q.Set("expand", opts.Expand)
	}
	if opts.Fields != "" {
		q.Set("fields", opts.Fields)
	}
	return q
}

func rawItems(items []map[string]any) []models.Raw {
	out := make([]models.Raw, len(items))
	for i, item := range items {
		out[i] = models.Raw(item)
	}
	return out
}

// errorResponse is the backend's error body shape; Data carries
// per-field validation messages.
type errorResponse struct {
	Code    int                       `json:"code"`
	Message string                    `json:"message"`
	Data    map[string]map[string]any `json:"data"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, reqBody any, respBody any) error {
	var buf bytes.Buffer
	if reqBody != nil {
		if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp.StatusCode, body)
	}

	if respBody != nil && len(body) > 0 {
		if err := json.Unmarshal(body, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) apiError(status int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)

	if status == http.StatusNotFound {
		return fmt.Errorf("%s: %w", er.Message, ErrNotFound)
	}

	if status == http.StatusBadRequest && len(er.Data) > 0 {
		fields := make(map[string]string, len(er.Data))
		for field, detail := range er.Data {
			if msg, ok := detail["message"].(string); ok {
				fields[field] = msg
			}
		}
		return &ValidationError{Message: er.Message, Fields: fields}
	}

	if er.Message != "" {
		return fmt.Errorf("store error: status=%d message=%s", status, er.Message)
	}
	return fmt.Errorf("store error: status=%d body=%s", status, string(body))
}
