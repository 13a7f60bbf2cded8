package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipebox/internal/service"
	"github.com/pageza/recipebox/internal/types"
)

const (
	formsetPrefix   = "ingredient_set-"
	maxFormMemory   = 8 << 20
	extraBlankForms = 3
	maxFormsetRows  = 1000
)

// bindRecipeForm reads a recipe form from a JSON body or from url-encoded
// or multipart form values. Values that cannot be parsed are reported as
// field errors keyed like the posted field.
func bindRecipeForm(c *gin.Context) (*types.RecipeForm, *service.ValidationError) {
	verr := &service.ValidationError{}
	form := &types.RecipeForm{}

	if strings.HasPrefix(c.ContentType(), gin.MIMEJSON) {
		if err := c.ShouldBindJSON(form); err != nil {
			verr.Add("__all__", "Malformed JSON body.")
		}
		return form, verr
	}

	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		verr.Add("__all__", "Malformed form body.")
		return form, verr
	}
	values := c.Request.PostForm

	form.Title = values.Get("title")
	form.CourseID = uint(parseInt(values, "course", verr))
	form.CuisineID = uint(parseInt(values, "cuisine", verr))
	form.Info = values.Get("info")
	form.CookTime = parseInt(values, "cook_time", verr)
	form.Servings = parseInt(values, "servings", verr)
	form.Shared = parseInt(values, "shared", verr)
	form.Tags = values.Get("tags")
	form.Directions = values.Get("directions")
	form.Ingredients = parseFormset(values, verr)

	return form, verr
}

// parseFormset collects ingredient_set-N-field values into rows. Missing
// indexes become blank rows so row positions match the posted indexes.
// Indexes at or beyond maxFormsetRows are dropped with a form error.
func parseFormset(values url.Values, verr *service.ValidationError) []types.IngredientRow {
	maxIndex := -1
	for key := range values {
		if !strings.HasPrefix(key, formsetPrefix) {
			continue
		}
		rest := strings.TrimPrefix(key, formsetPrefix)
		n, err := strconv.Atoi(strings.SplitN(rest, "-", 2)[0])
		if err != nil || n < 0 {
			continue
		}
		if n >= maxFormsetRows {
			verr.Add("__all__", fmt.Sprintf("Please submit at most %d ingredients.", maxFormsetRows))
			continue
		}
		if n > maxIndex {
			maxIndex = n
		}
	}

	rows := make([]types.IngredientRow, maxIndex+1)
	for i := range rows {
		key := func(field string) string { return formsetPrefix + strconv.Itoa(i) + "-" + field }
		row := types.IngredientRow{
			Measurement: values.Get(key("measurement")),
			Title:       values.Get(key("title")),
			Delete:      isChecked(values.Get(key("DELETE"))),
		}
		if raw := strings.TrimSpace(values.Get(key("id"))); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				verr.Add(key("id"), "Select a valid choice. That choice is not one of the available choices.")
			} else {
				row.ID = &id
			}
		}
		if raw := strings.TrimSpace(values.Get(key("quantity"))); raw != "" {
			q, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				verr.Add(key("quantity"), "Enter a number.")
			} else {
				row.Quantity = q
			}
		}
		rows[i] = row
	}
	return rows
}

func parseInt(values url.Values, field string, verr *service.ValidationError) int {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(field, "Enter a whole number.")
		return 0
	}
	return n
}

func isChecked(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// withExtraRows appends blank rows for new ingredients to an initial form.
func withExtraRows(form types.RecipeForm) types.RecipeForm {
	for i := 0; i < extraBlankForms; i++ {
		form.Ingredients = append(form.Ingredients, types.IngredientRow{})
	}
	return form
}
