package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/recipebox/internal/models"
)

// Seed inserts the default courses and cuisines. Existing titles are kept.
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, title := range models.DefaultCourses {
			course := models.Course{Title: title}
			if err := tx.Where("title = ?", title).FirstOrCreate(&course).Error; err != nil {
				return fmt.Errorf("failed to seed course %q: %w", title, err)
			}
		}
		for _, title := range models.DefaultCuisines {
			cuisine := models.Cuisine{Title: title}
			if err := tx.Where("title = ?", title).FirstOrCreate(&cuisine).Error; err != nil {
				return fmt.Errorf("failed to seed cuisine %q: %w", title, err)
			}
		}
		return nil
	})
}
