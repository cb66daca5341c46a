// Package mealdb is a client for TheMealDB's public JSON API.
package mealdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"mealspread/internal/platform/metrics"
	"mealspread/internal/recipe"
)

// DefaultBaseURL is the free-tier API root.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

const (
	providerName    = "mealdb"
	maxResponseSize = 4 << 20
)

// ErrNotFound is returned when a lookup matches no meal.
var ErrNotFound = errors.New("meal not found")

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Cache stores raw response bodies. Get returns nil on a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Client queries TheMealDB.
type Client struct {
	baseURL    string
	httpClient doer
	timeout    time.Duration
	cache      Cache
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every individual request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithCache serves repeated requests from cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithMetrics records lookup outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, httpClient doer, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		timeout:    5 * time.Second,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FilterByIngredient returns the meals that use ingredient. A provider answer
// of {"meals": null} yields an empty slice.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]recipe.Summary, error) {
	var resp mealsResponse
	if err := c.get(ctx, "filter.php", url.Values{"i": {ingredient}}, &resp); err != nil {
		return nil, err
	}

	summaries := make([]recipe.Summary, 0, len(resp.Meals))
	for _, m := range resp.Meals {
		summaries = append(summaries, m.summary())
	}
	return summaries, nil
}

// LookupMeal fetches the full record for id.
func (c *Client) LookupMeal(ctx context.Context, id string) (*recipe.Detail, error) {
	var resp mealsResponse
	if err := c.get(ctx, "lookup.php", url.Values{"i": {id}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		return nil, fmt.Errorf("lookup %s: %w", id, ErrNotFound)
	}
	return resp.Meals[0].detail(), nil
}

// SearchMealByName returns the first meal matching title.
func (c *Client) SearchMealByName(ctx context.Context, title string) (*recipe.Detail, error) {
	var resp mealsResponse
	if err := c.get(ctx, "search.php", url.Values{"s": {title}}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Meals) == 0 {
		return nil, fmt.Errorf("search %q: %w", title, ErrNotFound)
	}
	return resp.Meals[0].detail(), nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) (err error) {
	key := endpoint + "?" + query.Encode()
	start := time.Now()
	outcome := metrics.OutcomeOK
	defer func() {
		if err != nil {
			outcome = metrics.OutcomeError
		}
		c.metrics.ObserveLookup(providerName, strings.TrimSuffix(endpoint, ".php"), outcome, time.Since(start))
	}()

	if c.cache != nil {
		cached, cerr := c.cache.Get(ctx, key)
		if cerr != nil {
			c.logger.Warn("mealdb cache read failed", zap.String("key", key), zap.Error(cerr))
		}
		if cached != nil && json.Unmarshal(cached, out) == nil {
			outcome = metrics.OutcomeCached
			return nil
		}
	}

	body, err := c.fetch(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}

	if c.cache != nil {
		if cerr := c.cache.Set(ctx, key, body); cerr != nil {
			c.logger.Warn("mealdb cache write failed", zap.String("key", key), zap.Error(cerr))
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, pathAndQuery string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+pathAndQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-OK status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
