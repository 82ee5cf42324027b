// Package splitwise is a minimal client for the Splitwise v3.0 REST API.
package splitwise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Adi-21/bhidi0xgasless/internal/telemetry"
)

const (
	DefaultBaseURL = "https://secure.splitwise.com/api/v3.0"
	DefaultTimeout = 15 * time.Second

	// StatusTimeout is reported when Splitwise does not answer in time.
	StatusTimeout = http.StatusRequestTimeout
)

// Client calls Splitwise on behalf of one bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a failed Splitwise call with a user-facing message.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Message maps the status to the text shown to the end user.
func (e *APIError) Message() string {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return "Invalid Splitwise token or unauthorized access"
	case http.StatusForbidden:
		return "Access forbidden - check token permissions"
	case http.StatusNotFound:
		return "Resource not found - check group ID or endpoint"
	case http.StatusTooManyRequests:
		return "Rate limited - too many requests"
	case StatusTimeout:
		return "Request timeout - Splitwise API not responding"
	}
	if e.Body != "" {
		return e.Body
	}
	return "Unknown API error"
}

func (c *Client) doAPI(ctx context.Context, operation, method, path string, body any, out any) error {
	if c.token == "" {
		return &APIError{Operation: operation, StatusCode: http.StatusUnauthorized, Body: "Splitwise token required"}
	}

	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			telemetry.IncUpstreamAPIError(operation, StatusTimeout)
			return &APIError{Operation: operation, StatusCode: StatusTimeout, Body: err.Error()}
		}
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("%s HTTP %d and read body failed: %w", operation, resp.StatusCode, readErr)
		}
		telemetry.IncUpstreamAPIError(operation, resp.StatusCode)
		return &APIError{Operation: operation, StatusCode: resp.StatusCode, Body: errorText(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", operation, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// errorText pulls "error" or "message" out of a JSON error body.
func errorText(raw []byte) string {
	var parsed struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		if s, ok := parsed.Error.(string); ok && s != "" {
			return s
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.doAPI(ctx, "get current user", http.MethodGet, "/get_current_user", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var out struct {
		Groups []Group `json:"groups"`
	}
	if err := c.doAPI(ctx, "get groups", http.MethodGet, "/get_groups", nil, &out); err != nil {
		return nil, err
	}
	return out.Groups, nil
}

func (c *Client) Group(ctx context.Context, id string) (*Group, error) {
	var out struct {
		Group *Group `json:"group"`
	}
	if err := c.doAPI(ctx, "get group", http.MethodGet, "/get_group/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.Group == nil {
		return nil, &APIError{Operation: "get group", StatusCode: http.StatusNotFound, Body: "group missing from response"}
	}
	return out.Group, nil
}

func (c *Client) Expenses(ctx context.Context, groupID string, limit int) ([]Expense, error) {
	q := url.Values{}
	q.Set("group_id", groupID)
	q.Set("limit", strconv.Itoa(limit))
	var out struct {
		Expenses []Expense `json:"expenses"`
	}
	if err := c.doAPI(ctx, "get expenses", http.MethodGet, "/get_expenses?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	if limit > 0 && len(out.Expenses) > limit {
		out.Expenses = out.Expenses[:limit]
	}
	return out.Expenses, nil
}

// CreateExpenseInput is the create_expense body for an equal split.
type CreateExpenseInput struct {
	GroupID      int64  `json:"group_id"`
	Description  string `json:"description"`
	Cost         string `json:"cost"`
	CurrencyCode string `json:"currency_code"`
	SplitEqually bool   `json:"split_equally"`
}

func (c *Client) CreateExpense(ctx context.Context, in CreateExpenseInput) (*Expense, error) {
	var out struct {
		Expenses []Expense      `json:"expenses"`
		Errors   map[string]any `json:"errors"`
	}
	if err := c.doAPI(ctx, "create expense", http.MethodPost, "/create_expense", in, &out); err != nil {
		return nil, err
	}
	if len(out.Expenses) == 0 {
		msg := "no expense returned"
		if len(out.Errors) > 0 {
			raw, _ := json.Marshal(out.Errors)
			msg = string(raw)
		}
		return nil, &APIError{Operation: "create expense", StatusCode: http.StatusBadRequest, Body: msg}
	}
	return &out.Expenses[0], nil
}

// ResolveGroup picks the caller's first real group (id != 0) when id is
// "auto" or the demo group id. Other ids, and lookups that fail, are
// returned as given.
func (c *Client) ResolveGroup(ctx context.Context, id string, autoIDs ...string) string {
	auto := false
	for _, a := range autoIDs {
		if id == a {
			auto = true
			break
		}
	}
	if !auto {
		return id
	}
	groups, err := c.Groups(ctx)
	if err != nil {
		return id
	}
	for _, g := range groups {
		if g.ID != 0 {
			return strconv.FormatInt(g.ID, 10)
		}
	}
	return id
}
