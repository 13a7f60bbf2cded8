package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/service"
	"github.com/pageza/recipebox/internal/types"
)

var (
	_ service.IRecipeService    = (*MockRecipeService)(nil)
	_ service.IRatingService    = (*MockRatingService)(nil)
	_ service.IFavoritesService = (*MockFavoritesService)(nil)
	_ service.IPhotoService     = (*MockPhotoService)(nil)
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) recipe(args mock.Arguments) (*models.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Create(ctx context.Context, author *models.User, form *types.RecipeForm) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, author, form))
}

func (m *MockRecipeService) GetBySlug(ctx context.Context, slug string, viewer *models.User) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, slug, viewer))
}

func (m *MockRecipeService) PrintView(ctx context.Context, slug string, viewer *models.User) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, slug, viewer))
}

func (m *MockRecipeService) GetForEdit(ctx context.Context, owner, slug string, editor *models.User) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, owner, slug, editor))
}

func (m *MockRecipeService) Edit(ctx context.Context, owner, slug string, editor *models.User, form *types.RecipeForm) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, owner, slug, editor, form))
}

func (m *MockRecipeService) Delete(ctx context.Context, owner, slug string, editor *models.User) error {
	args := m.Called(ctx, owner, slug, editor)
	return args.Error(0)
}

func (m *MockRecipeService) List(ctx context.Context, viewer *models.User, filter service.RecipeFilter) ([]models.Recipe, error) {
	args := m.Called(ctx, viewer, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Choices(ctx context.Context) ([]models.Course, []models.Cuisine, error) {
	args := m.Called(ctx)
	courses, _ := args.Get(0).([]models.Course)
	cuisines, _ := args.Get(1).([]models.Cuisine)
	return courses, cuisines, args.Error(2)
}

// MockRatingService is a mock implementation of the rating service
type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) Vote(ctx context.Context, recipeID uuid.UUID, score int, voter *models.User) (*service.VoteResult, error) {
	args := m.Called(ctx, recipeID, score, voter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VoteResult), args.Error(1)
}

func (m *MockRatingService) Summary(ctx context.Context, recipeID uuid.UUID) (service.RatingSummary, error) {
	args := m.Called(ctx, recipeID)
	return args.Get(0).(service.RatingSummary), args.Error(1)
}

// MockFavoritesService is a mock implementation of the favorites service
type MockFavoritesService struct {
	mock.Mock
}

func (m *MockFavoritesService) Store(ctx context.Context, recipeID uuid.UUID, user *models.User) (service.StoreStatus, error) {
	args := m.Called(ctx, recipeID, user)
	return args.Get(0).(service.StoreStatus), args.Error(1)
}

func (m *MockFavoritesService) Unstore(ctx context.Context, recipeID uuid.UUID, user *models.User) error {
	args := m.Called(ctx, recipeID, user)
	return args.Error(0)
}

func (m *MockFavoritesService) List(ctx context.Context, user *models.User) ([]models.StoredRecipe, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StoredRecipe), args.Error(1)
}

func (m *MockFavoritesService) IsStored(ctx context.Context, recipeID uuid.UUID, user *models.User) (bool, error) {
	args := m.Called(ctx, recipeID, user)
	return args.Bool(0), args.Error(1)
}

// MockPhotoService is a mock implementation of the photo service
type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Upload(ctx context.Context, owner, slug string, editor *models.User, upload service.PhotoUpload) (*models.Recipe, error) {
	args := m.Called(ctx, owner, slug, editor, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}
