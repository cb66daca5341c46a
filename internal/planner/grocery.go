package planner

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mealspread/internal/recipe"
)

// MaxGroceryItems caps the shopping list.
const MaxGroceryItems = 20

// Reconcile looks up every recipe in pool by title and returns the ingredients
// they use that are not in onHand, matched exactly, at most MaxGroceryItems of
// them. Items keep the order in which they were first seen across the pool.
// Recipes whose lookup fails contribute nothing.
func (s *Service) Reconcile(ctx context.Context, onHand []string, pool []recipe.Summary) []string {
	missing := make([]string, 0)
	if len(pool) == 0 {
		return missing
	}

	results := make([][]string, len(pool))
	s.forEach(ctx, len(pool), func(ctx context.Context, i int) {
		d, err := s.provider.SearchMealByName(ctx, pool[i].Title)
		if err != nil {
			s.logger.Warn("skipping recipe ingredients", zap.String("title", pool[i].Title), zap.Error(err))
			return
		}
		results[i] = d.Ingredients
	})

	have := make(map[string]struct{}, len(onHand))
	for _, ing := range onHand {
		have[ing] = struct{}{}
	}

	seen := make(map[string]struct{})
	for _, ingredients := range results {
		for _, ing := range ingredients {
			ing = strings.TrimSpace(ing)
			if ing == "" {
				continue
			}
			if _, ok := seen[ing]; ok {
				continue
			}
			seen[ing] = struct{}{}
			if _, ok := have[ing]; ok {
				continue
			}
			missing = append(missing, ing)
			if len(missing) == MaxGroceryItems {
				return missing
			}
		}
	}
	return missing
}
