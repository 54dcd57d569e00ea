package churnapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BerylCAtieno/churn-dashboard/internal/models"
)

const maxErrorBody = 64 << 10

// Client talks to the churn prediction service. The base URL is fixed at
// construction; every call site goes through the same Client.
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a Client for baseURL. A zero timeout means requests wait for
// as long as the caller's context allows.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Customer fetches a customer's profile and prediction history. A 2xx
// response with a JSON null body returns (nil, nil).
func (c *Client) Customer(ctx context.Context, customerID string) (*models.CustomerDetails, error) {
	var out *models.CustomerDetails
	path := "/customer/" + url.PathEscape(customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("get customer %q: %w", customerID, err)
	}
	return out, nil
}

// Predict submits one prediction request.
func (c *Client) Predict(ctx context.Context, req models.PredictRequest) (*models.PredictResponse, error) {
	var out *models.PredictResponse
	if err := c.do(ctx, http.MethodPost, "/predict", req, &out); err != nil {
		return nil, fmt.Errorf("predict churn: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("predict churn: empty response")
	}
	return out, nil
}

func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	var out models.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return &out, nil
}

// Strategies returns the full strategy catalog keyed by risk segment.
func (c *Client) Strategies(ctx context.Context) (models.StrategyCatalog, error) {
	out := models.StrategyCatalog{}
	if err := c.do(ctx, http.MethodGet, "/strategies", nil, &out); err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = body.Message
		apiErr.Err = body.Error
	}
	return apiErr
}
