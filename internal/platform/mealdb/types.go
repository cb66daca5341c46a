package mealdb

import (
	"encoding/json"
	"fmt"
	"strings"

	"mealspread/internal/recipe"
)

// ingredientSlots is the number of strIngredientN fields on a meal record.
const ingredientSlots = 20

type mealsResponse struct {
	Meals []meal `json:"meals"`
}

// meal is a TheMealDB record. Filter responses only populate id, name and thumb.
type meal struct {
	ID           string   `json:"idMeal"`
	Name         string   `json:"strMeal"`
	Thumb        string   `json:"strMealThumb"`
	Instructions string   `json:"strInstructions"`
	Source       string   `json:"strSource"`
	Youtube      string   `json:"strYoutube"`
	Ingredients  []string `json:"-"`
}

// UnmarshalJSON collects the non-empty numbered ingredient slots.
func (m *meal) UnmarshalJSON(data []byte) error {
	type alias meal
	if err := json.Unmarshal(data, (*alias)(m)); err != nil {
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	m.Ingredients = nil
	for i := 1; i <= ingredientSlots; i++ {
		v, _ := raw[fmt.Sprintf("strIngredient%d", i)].(string)
		if v = strings.TrimSpace(v); v != "" {
			m.Ingredients = append(m.Ingredients, v)
		}
	}
	return nil
}

func (m meal) summary() recipe.Summary {
	return recipe.Summary{
		Title: m.Name,
		Image: m.Thumb,
		ID:    m.ID,
		Link:  recipe.PageURL(m.ID),
	}
}

func (m meal) detail() *recipe.Detail {
	return &recipe.Detail{
		ID:           m.ID,
		Title:        m.Name,
		Instructions: m.Instructions,
		SourceLink:   strings.TrimSpace(m.Source),
		VideoLink:    strings.TrimSpace(m.Youtube),
		Ingredients:  m.Ingredients,
	}
}
