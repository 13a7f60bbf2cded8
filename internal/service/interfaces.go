package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/types"
)

// IAuthService defines the interface for account and session operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, author *models.User, form *types.RecipeForm) (*models.Recipe, error)
	GetBySlug(ctx context.Context, slug string, viewer *models.User) (*models.Recipe, error)
	PrintView(ctx context.Context, slug string, viewer *models.User) (*models.Recipe, error)
	GetForEdit(ctx context.Context, owner, slug string, editor *models.User) (*models.Recipe, error)
	Edit(ctx context.Context, owner, slug string, editor *models.User, form *types.RecipeForm) (*models.Recipe, error)
	Delete(ctx context.Context, owner, slug string, editor *models.User) error
	List(ctx context.Context, viewer *models.User, filter RecipeFilter) ([]models.Recipe, error)
	Choices(ctx context.Context) ([]models.Course, []models.Cuisine, error)
}

// IRatingService defines the interface for voting on recipes
type IRatingService interface {
	Vote(ctx context.Context, recipeID uuid.UUID, score int, voter *models.User) (*VoteResult, error)
	Summary(ctx context.Context, recipeID uuid.UUID) (RatingSummary, error)
}

// IFavoritesService defines the interface for a user's stored recipes
type IFavoritesService interface {
	Store(ctx context.Context, recipeID uuid.UUID, user *models.User) (StoreStatus, error)
	Unstore(ctx context.Context, recipeID uuid.UUID, user *models.User) error
	List(ctx context.Context, user *models.User) ([]models.StoredRecipe, error)
	IsStored(ctx context.Context, recipeID uuid.UUID, user *models.User) (bool, error)
}

// IPhotoService defines the interface for recipe photo uploads
type IPhotoService interface {
	Upload(ctx context.Context, owner, slug string, editor *models.User, upload PhotoUpload) (*models.Recipe, error)
}
