package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoredRecipe records that a user saved a recipe to their favorites.
type StoredRecipe struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_stored_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_stored_user_recipe;index" json:"recipe_id"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

// BeforeCreate assigns a new id when the caller did not set one.
func (s *StoredRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Cuisine{},
		&Recipe{},
		&Ingredient{},
		&Rating{},
		&Vote{},
		&StoredRecipe{},
	}
}
