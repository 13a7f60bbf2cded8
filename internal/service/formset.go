package service

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/internal/models"
)

// ingredientMerge is the diff an edit applies to a recipe's ingredients.
type ingredientMerge struct {
	updates []models.Ingredient
	inserts []models.Ingredient
	deletes []uuid.UUID
}

// planIngredientMerge matches formset rows against the current ingredients:
// rows with a known id update or delete that ingredient, rows without one
// are appended after the last position. Unknown or repeated ids are
// recorded on verr.
func planIngredientMerge(recipeID uuid.UUID, existing []models.Ingredient, rows []indexedRow, verr *ValidationError) ingredientMerge {
	byID := make(map[uuid.UUID]models.Ingredient, len(existing))
	next := 0
	for _, ing := range existing {
		byID[ing.ID] = ing
		if ing.Position >= next {
			next = ing.Position + 1
		}
	}

	var plan ingredientMerge
	seen := make(map[uuid.UUID]bool)
	for _, row := range rows {
		if row.ID != nil {
			cur, ok := byID[*row.ID]
			if !ok || seen[*row.ID] {
				verr.Add(ingredientKey(row.index, "id"), "Select a valid choice. That choice is not one of the available choices.")
				continue
			}
			seen[*row.ID] = true
			if row.Delete {
				plan.deletes = append(plan.deletes, cur.ID)
				continue
			}
			cur.Quantity = row.Quantity
			cur.Measurement = row.Measurement
			cur.Title = row.Title
			plan.updates = append(plan.updates, cur)
			continue
		}
		if row.Delete {
			continue
		}
		plan.inserts = append(plan.inserts, models.Ingredient{
			RecipeID:    recipeID,
			Position:    next,
			Quantity:    row.Quantity,
			Measurement: row.Measurement,
			Title:       row.Title,
		})
		next++
	}
	return plan
}

func (p ingredientMerge) apply(tx *gorm.DB, recipeID uuid.UUID) error {
	for _, ing := range p.updates {
		err := tx.Model(&models.Ingredient{}).
			Where("id = ? AND recipe_id = ?", ing.ID, recipeID).
			Updates(map[string]interface{}{
				"quantity":    ing.Quantity,
				"measurement": ing.Measurement,
				"title":       ing.Title,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update ingredient: %w", err)
		}
	}
	if len(p.deletes) > 0 {
		if err := tx.Where("recipe_id = ? AND id IN ?", recipeID, p.deletes).Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients: %w", err)
		}
	}
	if len(p.inserts) > 0 {
		if err := tx.Create(&p.inserts).Error; err != nil {
			return fmt.Errorf("failed to add ingredients: %w", err)
		}
	}
	return nil
}
