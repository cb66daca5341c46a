package recipe

import "fmt"

// MealPageURL is the public TheMealDB page for a meal id. It is the link of
// last resort when a recipe carries neither a source nor a video link.
const MealPageURL = "https://www.themealdb.com/meal/%s"

// Summary is one candidate recipe in a planning pool.
type Summary struct {
	Title string `json:"title"`
	Image string `json:"image"`
	ID    string `json:"id"`
	Link  string `json:"link"`
}

// Detail is the full provider record of a meal.
type Detail struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Instructions string   `json:"instructions"`
	SourceLink   string   `json:"source_link"`
	VideoLink    string   `json:"video_link"`
	Ingredients  []string `json:"ingredients"`
}

// ClassifiedMeal is a meal annotated with its preparation tier.
type ClassifiedMeal struct {
	Title string `json:"title"`
	Tier  Tier   `json:"tier"`
	Link  string `json:"link"`
}

// WeeklyPlanEntry assigns a meal to a weekday.
type WeeklyPlanEntry struct {
	Day  string         `json:"day"`
	Meal ClassifiedMeal `json:"meal"`
}

// ProviderRecipeRecord is a recipe returned by the ingredient-matching provider
// used for image uploads.
type ProviderRecipeRecord struct {
	ID                    int64    `json:"id"`
	Title                 string   `json:"title"`
	Image                 string   `json:"image"`
	UsedIngredientCount   int      `json:"usedIngredientCount"`
	MissedIngredientCount int      `json:"missedIngredientCount"`
	UsedIngredients       []string `json:"usedIngredients"`
	MissedIngredients     []string `json:"missedIngredients"`
}

// PageURL returns the fallback TheMealDB link for id.
func PageURL(id string) string {
	return fmt.Sprintf(MealPageURL, id)
}

// Classify annotates a detail with its tier and preferred link.
func (d *Detail) Classify(summaryID string) ClassifiedMeal {
	link := d.SourceLink
	if link == "" {
		link = d.VideoLink
	}
	if link == "" {
		link = PageURL(summaryID)
	}
	return ClassifiedMeal{
		Title: d.Title,
		Tier:  Classify(d.Instructions),
		Link:  link,
	}
}
