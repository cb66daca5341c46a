// Package spoonacular queries the Spoonacular recipe API by ingredient list.
package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mealspread/internal/platform/metrics"
	"mealspread/internal/recipe"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.spoonacular.com"

// ErrMissingAPIKey is returned by NewClient when no key is configured.
var ErrMissingAPIKey = errors.New("spoonacular api key not set")

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Spoonacular API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient doer
	timeout    time.Duration
	metrics    *metrics.Metrics
}

// NewClient creates a client. It refuses to build one without an API key so
// that callers never send unauthenticated requests.
func NewClient(baseURL, apiKey string, httpClient doer, timeout time.Duration, m *metrics.Metrics) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		timeout:    timeout,
		metrics:    m,
	}, nil
}

type ingredientRef struct {
	Name string `json:"name"`
}

type findResult struct {
	ID                    int64           `json:"id"`
	Title                 string          `json:"title"`
	Image                 string          `json:"image"`
	UsedIngredientCount   int             `json:"usedIngredientCount"`
	MissedIngredientCount int             `json:"missedIngredientCount"`
	UsedIngredients       []ingredientRef `json:"usedIngredients"`
	MissedIngredients     []ingredientRef `json:"missedIngredients"`
}

// FindByIngredients returns up to number recipes that use the given ingredients.
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string, number int) (_ []recipe.ProviderRecipeRecord, err error) {
	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeError
		}
		c.metrics.ObserveLookup("spoonacular", "findByIngredients", outcome, time.Since(start))
	}()

	if len(ingredients) == 0 {
		return []recipe.ProviderRecipeRecord{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	query := url.Values{
		"ingredients": {strings.Join(ingredients, ",")},
		"number":      {strconv.Itoa(number)},
		"apiKey":      {c.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/recipes/findByIngredients?"+query.Encode(), nil)
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

	var results []findResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	records := make([]recipe.ProviderRecipeRecord, 0, len(results))
	for _, r := range results {
		records = append(records, recipe.ProviderRecipeRecord{
			ID:                    r.ID,
			Title:                 r.Title,
			Image:                 r.Image,
			UsedIngredientCount:   r.UsedIngredientCount,
			MissedIngredientCount: r.MissedIngredientCount,
			UsedIngredients:       names(r.UsedIngredients),
			MissedIngredients:     names(r.MissedIngredients),
		})
	}
	return records, nil
}

func names(refs []ingredientRef) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}
