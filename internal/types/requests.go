package types

import (
	"github.com/google/uuid"
)

// RecipeForm is the create/edit form for a recipe and its ingredient formset.
type RecipeForm struct {
	Title       string          `form:"title" json:"title" validate:"required,max=250"`
	CourseID    uint            `form:"course" json:"course" validate:"required"`
	CuisineID   uint            `form:"cuisine" json:"cuisine" validate:"required"`
	Info        string          `form:"info" json:"info"`
	CookTime    int             `form:"cook_time" json:"cook_time" validate:"required,min=1"`
	Servings    int             `form:"servings" json:"servings" validate:"required,min=1"`
	Shared      int             `form:"shared" json:"shared" validate:"oneof=0 1"`
	Tags        string          `form:"tags" json:"tags" validate:"max=500"`
	Directions  string          `form:"directions" json:"directions"`
	Ingredients []IngredientRow `form:"-" json:"ingredients"`
}

// IngredientRow is one formset row. A row with an ID updates that ingredient,
// a row without one is appended, and Delete removes the referenced row.
type IngredientRow struct {
	ID          *uuid.UUID `form:"id" json:"id,omitempty"`
	Quantity    float64    `form:"quantity" json:"quantity" validate:"gt=0"`
	Measurement string     `form:"measurement" json:"measurement" validate:"max=50"`
	Title       string     `form:"title" json:"title" validate:"required,max=250"`
	Delete      bool       `form:"DELETE" json:"delete,omitempty"`
}

// Blank reports whether the row is an untouched extra form.
func (r IngredientRow) Blank() bool {
	return r.ID == nil && !r.Delete && r.Quantity == 0 && r.Measurement == "" && r.Title == ""
}

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username string `form:"username" json:"username" binding:"required,max=150"`
	Email    string `form:"email" json:"email" binding:"omitempty,email"`
	Password string `form:"password" json:"password" binding:"required,min=8"`
}

// LoginRequest represents the login form
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// UnstoreRequest identifies the recipe to remove from favorites
type UnstoreRequest struct {
	RecipeID string `form:"recipe_id" json:"recipe_id" binding:"required"`
}
