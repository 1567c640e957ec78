package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

// APIError is returned when PostgREST or GoTrue answers with a 4xx/5xx status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// BreakerSettings configures the circuit breaker around upstream calls
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	OnStateChange    func(name string, from, to gobreaker.State)
}

// Client represents a Supabase client
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client

	cb *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a new Supabase client. Transport failures and 5xx
// responses count against the breaker; 4xx responses do not.
func NewClient(baseURL, serviceKey string, breaker BreakerSettings) *Client {
	if breaker.FailureThreshold == 0 {
		breaker.FailureThreshold = 5
	}
	threshold := breaker.FailureThreshold

	settings := gobreaker.Settings{
		Name:        "supabase",
		MaxRequests: breaker.MaxRequests,
		Interval:    breaker.Interval,
		Timeout:     breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
		},
		OnStateChange: breaker.OnStateChange,
	}

	return &Client{
		URL:        baseURL,
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		cb:         gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// BreakerState reports the current breaker state
func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

type userTokenKey struct{}

// WithUserToken attaches a user JWT so requests run under row level security
func WithUserToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, userTokenKey{}, token)
}

func userToken(ctx context.Context) string {
	if token, ok := ctx.Value(userTokenKey{}).(string); ok {
		return token
	}
	return ""
}

// Query executes a GET on a table with PostgREST filter parameters
func (c *Client) Query(ctx context.Context, table string, query map[string]interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.tableURL(table, query), nil, "")
}

// Insert inserts one record (or a slice of records) and returns the representation
func (c *Client) Insert(ctx context.Context, table string, data interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, c.tableURL(table, nil), data, "return=representation")
}

// Update patches the record with the given id
func (c *Client) Update(ctx context.Context, table, id string, data interface{}) ([]byte, error) {
	return c.UpdateWhere(ctx, table, map[string]interface{}{"id": "eq." + id}, data)
}

// UpdateWhere patches all records matching a query
func (c *Client) UpdateWhere(ctx context.Context, table string, query map[string]interface{}, data interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, c.tableURL(table, query), data, "return=representation")
}

// Delete deletes the record with the given id
func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.DeleteWhere(ctx, table, map[string]interface{}{"id": "eq." + id})
}

// DeleteWhere deletes records matching a query
func (c *Client) DeleteWhere(ctx context.Context, table string, query map[string]interface{}) error {
	_, err := c.do(ctx, http.MethodDelete, c.tableURL(table, query), nil, "")
	return err
}

// VerifyToken verifies a JWT token with Supabase
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	body, err := c.do(WithUserToken(ctx, token), http.MethodGet, c.URL+"/auth/v1/user", nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}

// User represents a Supabase user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Client) tableURL(table string, query map[string]interface{}) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)
	if len(query) == 0 {
		return u
	}
	q := url.Values{}
	for key, value := range query {
		q.Add(key, fmt.Sprintf("%v", value))
	}
	return u + "?" + q.Encode()
}

func (c *Client) do(ctx context.Context, method, target string, data interface{}, prefer string) ([]byte, error) {
	var payload []byte
	if data != nil {
		var err error
		if payload, err = json.Marshal(data); err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	return c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}

		req.Header.Set("apikey", c.ServiceKey)

		// Use user token if provided, otherwise use service key
		if token := userToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		} else {
			req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if prefer != "" {
			req.Header.Set("Prefer", prefer)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 400 {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		return body, nil
	})
}
