package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/internal/models"
)

// StoreStatus is the outcome of storing a recipe.
type StoreStatus int

const (
	StoreAdded StoreStatus = iota
	StoreAlreadyExists
)

func (s StoreStatus) String() string {
	if s == StoreAlreadyExists {
		return "already_exists"
	}
	return "added"
}

// Message is the confirmation shown to the user.
func (s StoreStatus) Message() string {
	if s == StoreAlreadyExists {
		return "Recipe already in your favorites!"
	}
	return "Recipe added to your favorites!"
}

// FavoritesService manages a user's stored recipes.
type FavoritesService struct {
	db *gorm.DB
}

// NewFavoritesService creates a new FavoritesService instance
func NewFavoritesService(db *gorm.DB) *FavoritesService {
	return &FavoritesService{db: db}
}

// Store saves the recipe for user. Storing twice is not an error; the
// second call reports StoreAlreadyExists and leaves a single row.
func (s *FavoritesService) Store(ctx context.Context, recipeID uuid.UUID, user *models.User) (StoreStatus, error) {
	if user == nil {
		return StoreAdded, ErrUnauthenticated
	}

	status := StoreAdded
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := visibleRecipe(tx, recipeID, user)
		if err != nil {
			return err
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.StoredRecipe{UserID: user.ID, RecipeID: recipe.ID})
		if res.Error != nil {
			return fmt.Errorf("failed to store recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			status = StoreAlreadyExists
		}
		return nil
	})
	return status, err
}

// Unstore removes the user's stored entry for the recipe. It reports
// ErrNotFound when the user has no such entry, including unknown recipes.
func (s *FavoritesService) Unstore(ctx context.Context, recipeID uuid.UUID, user *models.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", user.ID, recipeID).
		Delete(&models.StoredRecipe{})
	if res.Error != nil {
		return fmt.Errorf("failed to unstore recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns the user's stored recipes, newest first. Recipes that have
// since become private to someone else are left out.
func (s *FavoritesService) List(ctx context.Context, user *models.User) ([]models.StoredRecipe, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}
	var stored []models.StoredRecipe
	err := s.db.WithContext(ctx).
		Joins("JOIN recipes ON recipes.id = stored_recipes.recipe_id").
		Where("stored_recipes.user_id = ?", user.ID).
		Where("(recipes.shared = ? OR recipes.author_id = ?)", models.Public, user.ID).
		Preload("Recipe").Preload("Recipe.Author").
		Order("stored_recipes.created_at DESC").
		Find(&stored).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stored recipes: %w", err)
	}
	return stored, nil
}

// IsStored reports whether user has stored the recipe.
func (s *FavoritesService) IsStored(ctx context.Context, recipeID uuid.UUID, user *models.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.StoredRecipe{}).
		Where("user_id = ? AND recipe_id = ?", user.ID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check stored recipe: %w", err)
	}
	return count > 0, nil
}
