package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/types"
)

var validate = newValidator()

// newValidator reports field errors under their form field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

func validateStruct(s interface{}, prefix string, verr *ValidationError) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.Add(prefix+"__all__", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		verr.Add(prefix+fe.Field(), fieldMessage(fe))
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min", "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "oneof":
		return "Select a valid choice."
	default:
		return "Enter a valid value."
	}
}

// ingredientKey names a formset field the way the form posts it.
func ingredientKey(index int, field string) string {
	return fmt.Sprintf("ingredient_set-%d-%s", index, field)
}

type indexedRow struct {
	index int
	types.IngredientRow
}

// validateRecipeForm checks the scalar fields and every non-blank formset
// row. Blank extra rows are dropped; rows marked for deletion skip field
// validation.
func validateRecipeForm(form *types.RecipeForm) (*ValidationError, []indexedRow) {
	verr := &ValidationError{}
	form.Title = strings.TrimSpace(form.Title)
	validateStruct(form, "", verr)

	rows := make([]indexedRow, 0, len(form.Ingredients))
	for i, row := range form.Ingredients {
		row.Title = strings.TrimSpace(row.Title)
		row.Measurement = strings.TrimSpace(row.Measurement)
		if row.Blank() {
			continue
		}
		if !row.Delete {
			validateStruct(row, ingredientKey(i, ""), verr)
		}
		rows = append(rows, indexedRow{index: i, IngredientRow: row})
	}
	return verr, rows
}

// checkChoices verifies the course and cuisine ids refer to existing rows.
func checkChoices(tx *gorm.DB, form *types.RecipeForm, verr *ValidationError) error {
	if form.CourseID != 0 {
		var count int64
		if err := tx.Model(&models.Course{}).Where("id = ?", form.CourseID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check course: %w", err)
		}
		if count == 0 {
			verr.Add("course", "Select a valid choice.")
		}
	}
	if form.CuisineID != 0 {
		var count int64
		if err := tx.Model(&models.Cuisine{}).Where("id = ?", form.CuisineID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check cuisine: %w", err)
		}
		if count == 0 {
			verr.Add("cuisine", "Select a valid choice.")
		}
	}
	return nil
}
