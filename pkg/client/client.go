// Package client is a typed HTTP client for the HirePath candidates API.
package client

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

	"hirepath-backend/internal/domain"
)

// APIError is a non-2xx response. Message holds the {"error"} body and Errors
// the {"errors"} list of a failed validation.
type APIError struct {
	StatusCode int
	Message    string   `json:"error"`
	Errors     []string `json:"errors"`
}

func (e *APIError) Error() string {
	switch {
	case len(e.Errors) > 0:
		return fmt.Sprintf("%d: %s", e.StatusCode, strings.Join(e.Errors, "; "))
	case e.Message != "":
		return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// CandidatePayload is the create/update body.
type CandidatePayload struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Skills     []string `json:"skills"`
	ResumeLink string   `json:"resumeLink,omitempty"`
	Experience int      `json:"experience"`
	Status     string   `json:"status,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// ListParams mirrors the listing query string. Zero values are omitted.
type ListParams struct {
	Search        string
	Status        string
	MinExperience *int
	MaxExperience *int
	Skills        []string
	Page          int
	Limit         int
	SortBy        string
	SortOrder     string
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("search", p.Search)
	set("status", p.Status)
	set("skills", strings.Join(p.Skills, ","))
	set("sortBy", p.SortBy)
	set("sortOrder", p.SortOrder)
	if p.MinExperience != nil {
		q.Set("minExperience", strconv.Itoa(*p.MinExperience))
	}
	if p.MaxExperience != nil {
		q.Set("maxExperience", strconv.Itoa(*p.MaxExperience))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL (e.g. http://localhost:3001).
// A nil httpClient gets a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) List(ctx context.Context, p ListParams) (*domain.PaginatedResult[domain.Candidate], error) {
	var out domain.PaginatedResult[domain.Candidate]
	path := "/api/candidates"
	if q := p.query().Encode(); q != "" {
		path += "?" + q
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Candidate, error) {
	var out domain.Candidate
	if err := c.do(ctx, http.MethodGet, "/api/candidates/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Create(ctx context.Context, payload CandidatePayload) (*domain.Candidate, error) {
	var out domain.Candidate
	if err := c.do(ctx, http.MethodPost, "/api/candidates", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Update(ctx context.Context, id string, payload CandidatePayload) (*domain.Candidate, error) {
	var out domain.Candidate
	if err := c.do(ctx, http.MethodPut, "/api/candidates/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/candidates/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Bulk(ctx context.Context, req domain.BulkRequest) (*domain.BulkResult, error) {
	var out domain.BulkResult
	if err := c.do(ctx, http.MethodPost, "/api/candidates/bulk", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats returns the reduced shape used by the dashboard cards.
func (c *Client) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/candidates/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	var out domain.StatsOverview
	if err := c.do(ctx, http.MethodGet, "/api/candidates/stats/overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health reports the service status. A 503 still decodes into the result
// alongside the returned *APIError.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	if err != nil && out.Status == "" {
		return nil, err
	}
	return &out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		if out != nil {
			_ = json.Unmarshal(data, out)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
