package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/internal/models"
)

const maxSlugBase = 240

// uniqueSlug derives a slug from title and appends -2, -3, ... until no
// other recipe uses it. exclude is the recipe being renamed, if any.
func uniqueSlug(tx *gorm.DB, title string, exclude uuid.UUID) (string, error) {
	base := slug.Make(title)
	if len(base) > maxSlugBase {
		base = strings.Trim(base[:maxSlugBase], "-")
	}
	if base == "" {
		base = "recipe"
	}

	candidate := base
	for n := 2; ; n++ {
		q := tx.Model(&models.Recipe{}).Where("slug = ?", candidate)
		if exclude != uuid.Nil {
			q = q.Where("id <> ?", exclude)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
