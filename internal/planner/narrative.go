package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mealspread/internal/recipe"
)

// FallbackNarrative replaces the narrative whenever the summarizer fails.
const FallbackNarrative = "Here's your smart weekly plan:"

const (
	narrativeMinWords = 60
	narrativeMaxWords = 150
)

// NarrativePrompt builds the summarizer input for meals.
func NarrativePrompt(meals []recipe.ClassifiedMeal) string {
	clauses := make([]string, 0, len(meals))
	for _, m := range meals {
		clauses = append(clauses, fmt.Sprintf("%s is %s", m.Title, m.Tier))
	}
	return "Analyze these meals and explain how they fit into a balanced 7-day schedule: " + strings.Join(clauses, ". ")
}

// Narrate asks the summarizer to frame the week. It never fails: any error,
// timeout or blank answer yields FallbackNarrative.
func (s *Service) Narrate(ctx context.Context, meals []recipe.ClassifiedMeal) string {
	if s.summarizer == nil {
		s.metrics.SummaryFallback()
		return FallbackNarrative
	}

	ctx, cancel := context.WithTimeout(ctx, s.summaryTimeout)
	defer cancel()

	text, err := s.summarizer.Summarize(ctx, NarrativePrompt(meals), narrativeMinWords, narrativeMaxWords)
	if err == nil {
		if text = strings.TrimSpace(text); text != "" {
			return text
		}
		err = errors.New("empty summary")
	}

	s.logger.Warn("narrative summarizer failed, using fallback", zap.Error(err))
	s.metrics.SummaryFallback()
	return FallbackNarrative
}
