package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-200 answer from the account API.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client calls the account API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client rooted at baseURL (for example
// http://127.0.0.1:3000/v1). A nil httpClient gets a 10s timeout default.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Register creates an inactive account.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.do(ctx, http.MethodPost, "/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
}

// Activate exchanges a mailed activation code.
func (c *Client) Activate(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPut, "/activate", "", map[string]string{
		"activation_code": code,
	}, nil)
}

// Login returns a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodGet, "/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

// SessionCheck returns the email the session token belongs to.
func (c *Client) SessionCheck(ctx context.Context, token string) (string, error) {
	var out struct {
		Email string `json:"email"`
	}
	if err := c.do(ctx, http.MethodGet, "/cookie", token, nil, &out); err != nil {
		return "", err
	}
	return out.Email, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, dst interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
