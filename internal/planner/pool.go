package planner

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mealspread/internal/recipe"
)

const (
	// MatchesPerIngredient caps how many search hits one ingredient contributes.
	MatchesPerIngredient = 5
	// MaxPoolSize caps the deduplicated pool.
	MaxPoolSize = 15
)

// BuildPool searches the provider once per ingredient and merges the hits into
// a pool with unique titles, in first-seen order, of at most MaxPoolSize
// recipes. Ingredients whose lookup fails are skipped.
func (s *Service) BuildPool(ctx context.Context, ingredients []string) []recipe.Summary {
	results := make([][]recipe.Summary, len(ingredients))

	s.forEach(ctx, len(ingredients), func(ctx context.Context, i int) {
		ingredient := strings.TrimSpace(ingredients[i])
		if ingredient == "" {
			return
		}
		matches, err := s.provider.FilterByIngredient(ctx, ingredient)
		if err != nil {
			s.logger.Warn("skipping ingredient search", zap.String("ingredient", ingredient), zap.Error(err))
			return
		}
		if len(matches) > MatchesPerIngredient {
			matches = matches[:MatchesPerIngredient]
		}
		results[i] = matches
	})

	return mergePool(results)
}

func mergePool(results [][]recipe.Summary) []recipe.Summary {
	pool := make([]recipe.Summary, 0, MaxPoolSize)
	seen := make(map[string]struct{})
	for _, matches := range results {
		for _, m := range matches {
			if _, dup := seen[m.Title]; dup {
				continue
			}
			seen[m.Title] = struct{}{}
			pool = append(pool, m)
			if len(pool) == MaxPoolSize {
				return pool
			}
		}
	}
	return pool
}
