// Package planner turns a list of on-hand ingredients into a weekly meal plan
// and a shopping list.
//
// Every outbound lookup may fail independently. Failed lookups are logged and
// skipped; the planner never returns an error and degrades to placeholder
// text when nothing usable came back.
package planner

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mealspread/internal/platform/metrics"
	"mealspread/internal/recipe"
)

// RecipeProvider looks recipes up in an external catalogue.
type RecipeProvider interface {
	FilterByIngredient(ctx context.Context, ingredient string) ([]recipe.Summary, error)
	LookupMeal(ctx context.Context, id string) (*recipe.Detail, error)
	SearchMealByName(ctx context.Context, title string) (*recipe.Detail, error)
}

// Summarizer writes a short natural-language paragraph about text.
type Summarizer interface {
	Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error)
}

// Result is the combined answer to one planning request.
type Result struct {
	Ingredients []string                 `json:"ingredients"`
	Recipes     []recipe.Summary         `json:"recipes"`
	Summary     string                   `json:"summary"`
	Plan        []recipe.WeeklyPlanEntry `json:"plan,omitempty"`
	GroceryList []string                 `json:"grocery_list"`
}

// Service runs planning requests. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	provider       RecipeProvider
	summarizer     Summarizer
	pick           Picker
	workers        int
	summaryTimeout time.Duration
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers bounds the number of concurrent provider lookups per stage.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithPicker replaces the random fallback selector.
func WithPicker(p Picker) Option {
	return func(s *Service) { s.pick = p }
}

// WithSummaryTimeout bounds the narrative call.
func WithSummaryTimeout(d time.Duration) Option {
	return func(s *Service) { s.summaryTimeout = d }
}

// WithMetrics records plan outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a Service. summarizer may be nil, in which case every plan uses
// the fallback narrative.
func New(provider RecipeProvider, summarizer Summarizer, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		provider:       provider,
		summarizer:     summarizer,
		pick:           RandomPicker(),
		workers:        4,
		summaryTimeout: 20 * time.Second,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseIngredients splits a comma-separated list, trimming entries and
// dropping empty ones. The result is never nil.
func ParseIngredients(raw string) []string {
	ingredients := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ingredients = append(ingredients, part)
		}
	}
	return ingredients
}

// Generate builds the pool for raw, then plans the week and reconciles the
// grocery list concurrently.
func (s *Service) Generate(ctx context.Context, raw string) Result {
	ingredients := ParseIngredients(raw)
	pool := s.BuildPool(ctx, ingredients)

	res := Result{
		Ingredients: ingredients,
		Recipes:     pool,
	}

	var g errgroup.Group
	g.Go(func() error {
		res.GroceryList = s.Reconcile(ctx, ingredients, pool)
		return nil
	})
	res.Summary, res.Plan = s.PlanWeek(ctx, pool)
	_ = g.Wait()

	s.logger.Info("plan generated",
		zap.Int("ingredients", len(ingredients)),
		zap.Int("pool", len(pool)),
		zap.Int("planned_days", len(res.Plan)),
		zap.Int("grocery_items", len(res.GroceryList)),
	)
	return res
}

// forEach runs fn for every index in [0, n) on at most s.workers goroutines
// and waits for all of them. fn must only write to state owned by index i.
func (s *Service) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()
}
