package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carvallo/girder/internal/dashboard"
	"github.com/carvallo/girder/internal/model"
)

// HTTPClient implements GirderClient over the girder HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// recordEnvelope is the mutation response: {ok, record} or {ok, deleted}.
type recordEnvelope struct {
	OK      bool            `json:"ok"`
	Record  json.RawMessage `json:"record"`
	Deleted json.RawMessage `json:"deleted"`
}

func (c *HTTPClient) FetchTree(ctx context.Context) (model.Tree, error) {
	var resp struct {
		Projects model.Tree `json:"projects"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// --- Tasks ---

func (c *HTTPClient) CreateTask(ctx context.Context, in dashboard.TaskInput) (*model.Task, error) {
	var task model.Task
	if err := c.doMutation(ctx, http.MethodPost, "/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, patch dashboard.TaskPatch) (*model.Task, error) {
	var task model.Task
	if err := c.doMutation(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string) (*model.Deletion, error) {
	return c.doDelete(ctx, "/tasks/"+url.PathEscape(id))
}

// --- Cashflow ---

func (c *HTTPClient) CreateCashflow(ctx context.Context, in dashboard.CashflowInput) (*model.CashflowEntry, error) {
	var entry model.CashflowEntry
	if err := c.doMutation(ctx, http.MethodPost, "/cashflow", in, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *HTTPClient) UpdateCashflow(ctx context.Context, id string, patch dashboard.CashflowPatch) (*model.CashflowEntry, error) {
	var entry model.CashflowEntry
	if err := c.doMutation(ctx, http.MethodPatch, "/cashflow/"+url.PathEscape(id), patch, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *HTTPClient) DeleteCashflow(ctx context.Context, id string) (*model.Deletion, error) {
	return c.doDelete(ctx, "/cashflow/"+url.PathEscape(id))
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doMutation performs a create or update and unwraps the record envelope.
func (c *HTTPClient) doMutation(ctx context.Context, method, path string, body any, record any) error {
	var env recordEnvelope
	if err := c.doJSON(ctx, method, path, body, &env); err != nil {
		return err
	}
	if err := json.Unmarshal(env.Record, record); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	return nil
}

// doDelete performs a delete and unwraps the deletion envelope.
func (c *HTTPClient) doDelete(ctx context.Context, path string) (*model.Deletion, error) {
	var env recordEnvelope
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &env); err != nil {
		return nil, err
	}
	var del model.Deletion
	if err := json.Unmarshal(env.Deleted, &del); err != nil {
		return nil, fmt.Errorf("decoding deletion: %w", err)
	}
	return &del, nil
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
