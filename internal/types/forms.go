package types

import (
	"github.com/pageza/recipebox/internal/models"
)

// FormFromRecipe builds the edit form initial data for an existing recipe.
func FormFromRecipe(r *models.Recipe) RecipeForm {
	form := RecipeForm{
		Title:       r.Title,
		CourseID:    r.CourseID,
		CuisineID:   r.CuisineID,
		Info:        r.Info,
		CookTime:    r.CookTime,
		Servings:    r.Servings,
		Shared:      r.Shared,
		Tags:        r.Tags.String(),
		Directions:  r.Directions,
		Ingredients: make([]IngredientRow, 0, len(r.Ingredients)),
	}
	for _, ing := range r.Ingredients {
		id := ing.ID
		form.Ingredients = append(form.Ingredients, IngredientRow{
			ID:          &id,
			Quantity:    ing.Quantity,
			Measurement: ing.Measurement,
			Title:       ing.Title,
		})
	}
	return form
}
