package planner

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"mealspread/internal/recipe"
)

// Placeholder summaries for requests with nothing to plan.
const (
	NoRecipesMessage       = "No recipes found for these ingredients."
	CouldNotAnalyzeMessage = "Could not analyze meal details."
)

const (
	quickDays    = 4 // Monday to Thursday
	moderateDays = 6 // through Saturday
)

// Weekdays is the plan order.
var Weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Picker returns an index in [0, n). n is always positive.
type Picker func(n int) int

// RandomPicker picks uniformly at random.
func RandomPicker() Picker {
	return rand.Intn
}

// Schedule assigns one meal to each weekday. Quick meals are preferred Monday
// to Thursday, Moderate through Saturday and Weekend Treats after that; each
// tier queue is consumed in order. When every queue is empty the day gets a
// meal chosen by pick from all of meals, so repeats are possible. Unknown-tier
// meals only ever appear through that fallback.
//
// The result always has seven entries. With no meals at all the entries carry
// only their day.
func Schedule(meals []recipe.ClassifiedMeal, pick Picker) []recipe.WeeklyPlanEntry {
	var quick, moderate, weekend []recipe.ClassifiedMeal
	for _, m := range meals {
		switch m.Tier {
		case recipe.Quick:
			quick = append(quick, m)
		case recipe.Moderate:
			moderate = append(moderate, m)
		case recipe.WeekendTreat:
			weekend = append(weekend, m)
		}
	}

	plan := make([]recipe.WeeklyPlanEntry, 0, len(Weekdays))
	for i, day := range Weekdays {
		var meal recipe.ClassifiedMeal
		switch {
		case i < quickDays && len(quick) > 0:
			meal, quick = quick[0], quick[1:]
		case i < moderateDays && len(moderate) > 0:
			meal, moderate = moderate[0], moderate[1:]
		case len(weekend) > 0:
			meal, weekend = weekend[0], weekend[1:]
		case len(meals) > 0:
			meal = meals[pick(len(meals))]
		}
		plan = append(plan, recipe.WeeklyPlanEntry{Day: day, Meal: meal})
	}
	return plan
}

// FormatPlan renders one line per day.
func FormatPlan(plan []recipe.WeeklyPlanEntry) []string {
	lines := make([]string, 0, len(plan))
	for _, e := range plan {
		lines = append(lines, fmt.Sprintf("%s: %s (%s) — %s", e.Day, e.Meal.Title, e.Meal.Tier, e.Meal.Link))
	}
	return lines
}

// PlanWeek classifies the pool, schedules it and frames the plan with a
// narrative. It returns a placeholder summary and no plan when the pool is
// empty or no detail could be fetched.
func (s *Service) PlanWeek(ctx context.Context, pool []recipe.Summary) (string, []recipe.WeeklyPlanEntry) {
	if len(pool) == 0 {
		s.metrics.PlanProduced("no_recipes")
		return NoRecipesMessage, nil
	}

	meals := s.ClassifyPool(ctx, pool)
	if len(meals) == 0 {
		s.logger.Info("no meal details available for pool")
		s.metrics.PlanProduced("no_details")
		return CouldNotAnalyzeMessage, nil
	}

	plan := Schedule(meals, s.pick)
	narrative := s.Narrate(ctx, meals)
	s.metrics.PlanProduced("planned")

	return narrative + "\n\nSmart 7-Day Meal Plan:\n" + strings.Join(FormatPlan(plan), "\n"), plan
}
