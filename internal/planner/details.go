package planner

import (
	"context"

	"go.uber.org/zap"

	"mealspread/internal/recipe"
)

// MaxDetailed is how many pool entries get a detail lookup.
const MaxDetailed = 10

// ClassifyPool fetches details for the head of the pool and classifies each
// meal that could be fetched. Order follows the pool.
func (s *Service) ClassifyPool(ctx context.Context, pool []recipe.Summary) []recipe.ClassifiedMeal {
	candidates := pool[:min(len(pool), MaxDetailed)]
	results := make([]*recipe.ClassifiedMeal, len(candidates))

	s.forEach(ctx, len(candidates), func(ctx context.Context, i int) {
		d, err := s.provider.LookupMeal(ctx, candidates[i].ID)
		if err != nil {
			s.logger.Warn("skipping meal detail",
				zap.String("id", candidates[i].ID),
				zap.String("title", candidates[i].Title),
				zap.Error(err),
			)
			return
		}
		meal := d.Classify(candidates[i].ID)
		results[i] = &meal
	})

	meals := make([]recipe.ClassifiedMeal, 0, len(results))
	for _, m := range results {
		if m != nil {
			meals = append(meals, *m)
		}
	}
	return meals
}
