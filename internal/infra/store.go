package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// StoreClient talks to the catalog store: an externally-owned REST collection
// service. Every call authenticates with a bearer token obtained from a
// credential exchange; the token is cached until the store rejects it.
type StoreClient struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// StoreError carries the status code so callers can branch on 401/404.
type StoreError struct {
	Status int
	Body   string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: status %d: %s", e.Status, e.Body)
}

// ListResult is the envelope the store wraps around filtered listings.
type ListResult struct {
	Page       int               `json:"page"`
	TotalItems int               `json:"totalItems"`
	Items      []json.RawMessage `json:"items"`
}

func NewStoreClient(baseURL, email, password string) *StoreClient {
	return &StoreClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		email:      email,
		password:   password,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// authenticate exchanges admin credentials for a bearer token.
func (c *StoreClient) authenticate(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"identity": c.email,
		"password": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("store: marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/admins/auth-with-password", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("store: create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("store: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("store: auth returned %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("store: decode auth response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("store: auth response without token")
	}
	return out.Token, nil
}

func (c *StoreClient) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.authenticate(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

func (c *StoreClient) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// do issues one authenticated request, retrying exactly once on 401 with a
// fresh token.
func (c *StoreClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("store: marshal body: %w", err)
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		token, err := c.bearer(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("store: create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("store: %s %s: %w", method, path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			resp.Body.Close()
			c.invalidateToken()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(resp.Body)
			resp.Body.Close()
			return &StoreError{Status: resp.StatusCode, Body: buf.String()}
		}

		if out != nil {
			err = json.NewDecoder(resp.Body).Decode(out)
		}
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("store: decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("store: unreachable after token refresh")
}

// List fetches records from a collection, optionally filtered by a boolean
// expression over field equality/substring (`nombre = "X"`, `nombre ~ "X"`).
func (c *StoreClient) List(ctx context.Context, collection, filter string) (*ListResult, error) {
	path := fmt.Sprintf("/api/collections/%s/records", collection)
	if filter != "" {
		path += "?filter=" + url.QueryEscape(filter)
	}
	var result ListResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Create inserts a record and decodes the stored representation into out.
func (c *StoreClient) Create(ctx context.Context, collection string, record, out interface{}) error {
	path := fmt.Sprintf("/api/collections/%s/records", collection)
	return c.do(ctx, http.MethodPost, path, record, out)
}

// Update patches the changed fields of an existing record.
func (c *StoreClient) Update(ctx context.Context, collection, id string, fields interface{}) error {
	path := fmt.Sprintf("/api/collections/%s/records/%s", collection, id)
	return c.do(ctx, http.MethodPatch, path, fields, nil)
}

// Get fetches a single record by id.
func (c *StoreClient) Get(ctx context.Context, collection, id string, out interface{}) error {
	path := fmt.Sprintf("/api/collections/%s/records/%s", collection, id)
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// EscapeFilterValue escapes double quotes inside filter literals.
func EscapeFilterValue(v string) string {
	return strings.ReplaceAll(v, `"`, `\"`)
}
