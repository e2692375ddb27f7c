// Package notion is a minimal Notion API client covering what the
// entity fetch layer needs: database queries with cursor pagination.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	pkgerrors "alnretool/pkg/errors"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	notionVersion  = "2022-06-28"
)

// BreakerConfig holds circuit breaker configuration for the client.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// ReadyToTrip inputs: the breaker opens once MinRequests have been
	// seen and the failure ratio reaches FailureThreshold.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "notion",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// Client is a Notion API client. Requests pass through a circuit
// breaker: repeated upstream failures stop the fan-out fetch from
// hammering a degraded API.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a client with the given integration token.
func NewClient(token string, logger *zap.Logger) *Client {
	c := &Client{
		token:   token,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
	c.breaker = newBreaker(DefaultBreakerConfig(), logger)
	return c
}

func newBreaker(config BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			}
		},
		IsSuccessful: func(err error) bool {
			// 4xx responses are the caller's problem, not upstream
			// degradation; only transport errors, 5xx and rate limiting
			// count against the breaker.
			var ae *apiError
			if errors.As(err, &ae) {
				return ae.status < 500 && ae.status != http.StatusTooManyRequests
			}
			return err == nil
		},
	})
}

// apiError is an HTTP-level error response from the Notion API.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("notion API error (%d): %s", e.status, e.message)
}

// request makes an authenticated request to the Notion API through the
// circuit breaker.
func (c *Client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	result, err := c.breaker.Execute(func() (any, error) {
		return c.do(req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, pkgerrors.NewUnavailableError("notion").WithCause(err)
		}
		var ae *apiError
		if errors.As(err, &ae) {
			return nil, pkgerrors.NewExternalError("notion", ae)
		}
		return nil, err
	}

	return result.([]byte), nil
}

// do performs one HTTP round trip and classifies the response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.NewExternalError("notion", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.NewExternalError("notion", fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, &apiError{status: resp.StatusCode, message: errResp.Message}
		}
		return nil, &apiError{status: resp.StatusCode, message: string(respBody)}
	}

	return respBody, nil
}

// ErrorResponse is a Notion API error body.
type ErrorResponse struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// QueryParams for querying a database.
type QueryParams struct {
	Filter      any    `json:"filter,omitempty"`
	Sorts       []Sort `json:"sorts,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// Sort orders query results.
type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"` // "created_time" or "last_edited_time"
	Direction string `json:"direction"`           // "ascending" or "descending"
}

// QueryResult is one page of database query results.
type QueryResult struct {
	Object     string `json:"object"`
	Results    []Page `json:"results"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// QueryDatabase runs one page of a database query.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, params QueryParams) (*QueryResult, error) {
	if params.PageSize == 0 {
		params.PageSize = 100
	}

	data, err := c.request(ctx, "POST", "/databases/"+databaseID+"/query", params)
	if err != nil {
		return nil, err
	}

	var result QueryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal query result: %w", err)
	}

	return &result, nil
}

// QueryDatabaseAll drains every page of a database query. Synthesis
// needs fully-fetched collections, so callers use this rather than
// handing partial pages downstream.
func (c *Client) QueryDatabaseAll(ctx context.Context, databaseID string, filter any) ([]Page, error) {
	var pages []Page
	params := QueryParams{Filter: filter}

	for {
		result, err := c.QueryDatabase(ctx, databaseID, params)
		if err != nil {
			return nil, err
		}
		pages = append(pages, result.Results...)
		if !result.HasMore {
			return pages, nil
		}
		params.StartCursor = result.NextCursor
	}
}

// GetPage retrieves a single page by ID.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	data, err := c.request(ctx, "GET", "/pages/"+pageID, nil)
	if err != nil {
		return nil, err
	}

	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal page: %w", err)
	}

	return &page, nil
}
