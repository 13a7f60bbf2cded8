package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/types"
)

func TestValidationErrorKeepsFirstMessage(t *testing.T) {
	verr := &ValidationError{}
	assert.True(t, verr.Empty())
	assert.NoError(t, verr.OrNil())

	verr.Add("title", "This field is required.")
	verr.Add("title", "Something else.")
	verr.Add("servings", "Enter a whole number.")

	assert.Equal(t, "This field is required.", verr.Fields["title"])
	assert.Equal(t, "validation failed: servings: Enter a whole number.; title: This field is required.", verr.Error())
	assert.Error(t, verr.OrNil())
}

func TestValidateRecipeForm(t *testing.T) {
	existing := uuid.New()
	form := &types.RecipeForm{
		Title:     "  Soup  ",
		CourseID:  1,
		CuisineID: 1,
		CookTime:  10,
		Servings:  2,
		Shared:    3,
		Ingredients: []types.IngredientRow{
			{Quantity: 1, Title: "water"},
			{},
			{ID: &existing, Delete: true},
			{Quantity: -1, Measurement: "cup"},
		},
	}

	verr, rows := validateRecipeForm(form)

	assert.Equal(t, "Soup", form.Title)
	assert.Equal(t, "Select a valid choice.", verr.Fields["shared"])
	assert.Contains(t, verr.Fields, "ingredient_set-3-quantity")
	assert.Equal(t, "This field is required.", verr.Fields["ingredient_set-3-title"])
	assert.NotContains(t, verr.Fields, "ingredient_set-2-title")

	require.Len(t, rows, 3)
	assert.Equal(t, 0, rows[0].index)
	assert.Equal(t, 2, rows[1].index)
	assert.Equal(t, 3, rows[2].index)
}

func TestPlanIngredientMerge(t *testing.T) {
	recipeID := uuid.New()
	a := models.Ingredient{ID: uuid.New(), RecipeID: recipeID, Position: 0, Quantity: 1, Title: "salt"}
	b := models.Ingredient{ID: uuid.New(), RecipeID: recipeID, Position: 4, Quantity: 1, Title: "pepper"}

	rows := []indexedRow{
		{index: 0, IngredientRow: types.IngredientRow{ID: &a.ID, Quantity: 2, Title: "sea salt"}},
		{index: 1, IngredientRow: types.IngredientRow{ID: &b.ID, Delete: true}},
		{index: 2, IngredientRow: types.IngredientRow{Quantity: 1, Title: "thyme"}},
		{index: 3, IngredientRow: types.IngredientRow{Quantity: 1, Title: "sage", Delete: true}},
	}

	verr := &ValidationError{}
	plan := planIngredientMerge(recipeID, []models.Ingredient{a, b}, rows, verr)
	require.True(t, verr.Empty())

	require.Len(t, plan.updates, 1)
	assert.Equal(t, "sea salt", plan.updates[0].Title)
	assert.Equal(t, []uuid.UUID{b.ID}, plan.deletes)
	require.Len(t, plan.inserts, 1)
	assert.Equal(t, "thyme", plan.inserts[0].Title)
	assert.Equal(t, 5, plan.inserts[0].Position)
}

func TestPlanIngredientMergeRejectsRepeatedID(t *testing.T) {
	recipeID := uuid.New()
	a := models.Ingredient{ID: uuid.New(), RecipeID: recipeID, Quantity: 1, Title: "salt"}

	rows := []indexedRow{
		{index: 0, IngredientRow: types.IngredientRow{ID: &a.ID, Quantity: 1, Title: "salt"}},
		{index: 1, IngredientRow: types.IngredientRow{ID: &a.ID, Quantity: 1, Title: "salt again"}},
	}

	verr := &ValidationError{}
	planIngredientMerge(recipeID, []models.Ingredient{a}, rows, verr)
	assert.Contains(t, verr.Fields, "ingredient_set-1-id")
	assert.NotContains(t, verr.Fields, "ingredient_set-0-id")
}
