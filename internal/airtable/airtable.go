// Package airtable is a minimal client for the Airtable REST API: paginated
// table listing plus single-record create/update/delete. It holds no state
// beyond its credentials; every call is a fresh round trip.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// pageSize is the maximum number of records Airtable returns per list call.
const pageSize = 100

// Record is one row of a table: a globally unique identifier plus an opaque
// field map. Values are strings, numbers, date strings, or lists of linked
// record identifiers.
type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

// Deletion acknowledges a successful record delete.
type Deletion struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// APIError is a non-success response from Airtable. The raw body is kept so
// callers can surface the backend's own diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable: HTTP %d: %s", e.StatusCode, e.Body)
}

// Client talks to one Airtable base. Construct it explicitly and pass it
// where needed; there is no package-level client.
type Client struct {
	baseURL    string
	baseID     string
	token      string
	httpClient *http.Client
}

// NewClient returns a client for the given base. baseURL is the API root
// (e.g. "https://api.airtable.com/v0"); token is the bearer credential.
func NewClient(baseURL, baseID, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		baseID:     baseID,
		token:      token,
		httpClient: &http.Client{},
	}
}

// listResponse is one page of a table listing.
type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// ListAll returns every record of the named table, following the offset
// cursor until the backend stops returning one. Records come back in the
// backend's native order. Any non-success page fails the whole listing with
// an *APIError; no page is retried.
func (c *Client) ListAll(ctx context.Context, table string) ([]Record, error) {
	var records []Record
	offset := ""
	for {
		q := url.Values{}
		q.Set("pageSize", fmt.Sprintf("%d", pageSize))
		if offset != "" {
			q.Set("offset", offset)
		}
		path := c.tablePath(table) + "?" + q.Encode()

		var page listResponse
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		records = append(records, page.Records...)

		if page.Offset == "" {
			return records, nil
		}
		offset = page.Offset
	}
}

// CreateRecord creates one record with the given fields and returns it.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	var rec Record
	if err := c.doJSON(ctx, http.MethodPost, c.tablePath(table), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateRecord applies a partial update: only the columns present in fields
// are touched on the backend.
func (c *Client) UpdateRecord(ctx context.Context, table, id string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	var rec Record
	if err := c.doJSON(ctx, http.MethodPatch, c.tablePath(table)+"/"+url.PathEscape(id), body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteRecord deletes one record and returns the backend's acknowledgment.
func (c *Client) DeleteRecord(ctx context.Context, table, id string) (*Deletion, error) {
	var del Deletion
	if err := c.doJSON(ctx, http.MethodDelete, c.tablePath(table)+"/"+url.PathEscape(id), nil, &del); err != nil {
		return nil, err
	}
	return &del, nil
}

func (c *Client) tablePath(table string) string {
	return "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

// doJSON performs an HTTP request with optional JSON body and decodes the
// JSON response. If result is nil, the response body is discarded.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
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
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
