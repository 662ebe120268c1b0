// Package opentdb fetches trivia questions from the Open Trivia DB API.
package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/quizpick/internal/model"
)

// DefaultURL is the public Open Trivia DB endpoint.
const DefaultURL = "https://opentdb.com/api.php"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Response codes documented by the Open Trivia DB.
const (
	codeSuccess   = 0
	codeNoResults = 1
)

// Client performs question requests against one endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a Client for baseURL. An empty baseURL selects DefaultURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	ResponseCode int              `json:"response_code"`
	Results      []model.Question `json:"results"`
}

// FetchQuestions requests count multiple-choice questions for categoryID.
// A response with no results yields an empty slice and no error.
func (c *Client) FetchQuestions(ctx context.Context, categoryID, count int) ([]model.Question, error) {
	reqURL, err := c.buildURL(categoryID, count)
	if err != nil {
		return nil, &FetchError{CategoryID: categoryID, Err: err}
	}

	start := time.Now()
	resp, err := c.httpRequest(ctx, reqURL)
	if err != nil {
		return nil, &FetchError{CategoryID: categoryID, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{CategoryID: categoryID, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &FetchError{CategoryID: categoryID, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	c.log.Debug("opentdb response",
		zap.Int("category", categoryID),
		zap.Int("amount", count),
		zap.Int("response_code", payload.ResponseCode),
		zap.Int("results", len(payload.Results)),
		zap.Duration("latency", time.Since(start)),
	)

	switch payload.ResponseCode {
	case codeSuccess:
		if payload.Results == nil {
			return []model.Question{}, nil
		}
		return payload.Results, nil
	case codeNoResults:
		return []model.Question{}, nil
	default:
		return nil, &FetchError{CategoryID: categoryID, Status: resp.StatusCode, ResponseCode: payload.ResponseCode, Err: errResponseCode(payload.ResponseCode)}
	}
}

func (c *Client) buildURL(categoryID, count int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	q := u.Query()
	q.Set("amount", strconv.Itoa(count))
	q.Set("category", strconv.Itoa(categoryID))
	q.Set("type", "multiple")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
