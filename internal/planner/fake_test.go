package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"mealspread/internal/recipe"
)

var errProvider = errors.New("provider unavailable")

// fakeProvider serves canned data. Keys missing from a map fail the lookup.
type fakeProvider struct {
	filter  map[string][]recipe.Summary
	details map[string]*recipe.Detail
	byName  map[string]*recipe.Detail

	mu          sync.Mutex
	filterCalls []string
	lookupCalls []string
	searchCalls []string
}

func (f *fakeProvider) FilterByIngredient(ctx context.Context, ingredient string) ([]recipe.Summary, error) {
	f.mu.Lock()
	f.filterCalls = append(f.filterCalls, ingredient)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := f.filter[ingredient]
	if !ok {
		return nil, errProvider
	}
	return s, nil
}

func (f *fakeProvider) LookupMeal(ctx context.Context, id string) (*recipe.Detail, error) {
	f.mu.Lock()
	f.lookupCalls = append(f.lookupCalls, id)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := f.details[id]
	if !ok {
		return nil, errProvider
	}
	return d, nil
}

func (f *fakeProvider) SearchMealByName(ctx context.Context, title string) (*recipe.Detail, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, title)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := f.byName[title]
	if !ok {
		return nil, errProvider
	}
	return d, nil
}

func (f *fakeProvider) calls() (filter, lookup, search int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filterCalls), len(f.lookupCalls), len(f.searchCalls)
}

type fakeSummarizer struct {
	text string
	err  error

	mu     sync.Mutex
	prompt string
	min    int
	max    int
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, minWords, maxWords int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompt, f.min, f.max = text, minWords, maxWords
	return f.text, f.err
}

func summary(id, title string) recipe.Summary {
	return recipe.Summary{Title: title, ID: id, Image: "https://img/" + id + ".jpg", Link: recipe.PageURL(id)}
}

func instructions(words int) string {
	return strings.TrimSpace(strings.Repeat("chop ", words))
}

func meal(title string, tier recipe.Tier) recipe.ClassifiedMeal {
	return recipe.ClassifiedMeal{Title: title, Tier: tier, Link: "https://example.com/" + title}
}

// seqPicker returns the given indexes in order and records every n it was called with.
type seqPicker struct {
	idx   []int
	calls []int
}

func (p *seqPicker) pick(n int) int {
	p.calls = append(p.calls, n)
	if len(p.calls) > len(p.idx) {
		panic(fmt.Sprintf("unexpected pick #%d", len(p.calls)))
	}
	return p.idx[len(p.calls)-1]
}
