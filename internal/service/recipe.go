package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/types"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// RecipeFilter narrows a recipe listing.
type RecipeFilter struct {
	Query     string
	Author    string
	CourseID  uint
	CuisineID uint
	Limit     int
	Offset    int
}

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create validates the form and stores the recipe with its ingredients.
func (s *RecipeService) Create(ctx context.Context, author *models.User, form *types.RecipeForm) (*models.Recipe, error) {
	if author == nil {
		return nil, ErrUnauthenticated
	}

	verr, rows := validateRecipeForm(form)
	var recipe *models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkChoices(tx, form, verr); err != nil {
			return err
		}
		for _, row := range rows {
			if row.ID != nil {
				verr.Add(ingredientKey(row.index, "id"), "Select a valid choice. That choice is not one of the available choices.")
			}
		}
		if err := verr.OrNil(); err != nil {
			return err
		}

		slug, err := uniqueSlug(tx, form.Title, uuid.Nil)
		if err != nil {
			return err
		}

		recipe = &models.Recipe{
			Title:      form.Title,
			Slug:       slug,
			AuthorID:   author.ID,
			CourseID:   form.CourseID,
			CuisineID:  form.CuisineID,
			Info:       form.Info,
			CookTime:   form.CookTime,
			Servings:   form.Servings,
			Shared:     form.Shared,
			Tags:       models.ParseTags(form.Tags),
			Directions: form.Directions,
		}
		position := 0
		for _, row := range rows {
			if row.Delete {
				continue
			}
			recipe.Ingredients = append(recipe.Ingredients, models.Ingredient{
				Position:    position,
				Quantity:    row.Quantity,
				Measurement: row.Measurement,
				Title:       row.Title,
			})
			position++
		}

		if err := tx.Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBySlug(ctx, recipe.Slug, author)
}

// GetBySlug returns the recipe unless it is missing or hidden from viewer.
func (s *RecipeService) GetBySlug(ctx context.Context, slug string, viewer *models.User) (*models.Recipe, error) {
	recipe, err := loadRecipe(s.db.WithContext(ctx), "recipes.slug = ?", slug)
	if err != nil {
		return nil, err
	}
	if !recipe.VisibleTo(viewer) {
		return nil, ErrNotFound
	}
	return recipe, nil
}

// PrintView applies the same visibility rule as GetBySlug.
func (s *RecipeService) PrintView(ctx context.Context, slug string, viewer *models.User) (*models.Recipe, error) {
	return s.GetBySlug(ctx, slug, viewer)
}

// GetForEdit returns the recipe when editor is its author and owner names them.
func (s *RecipeService) GetForEdit(ctx context.Context, owner, slug string, editor *models.User) (*models.Recipe, error) {
	if editor == nil {
		return nil, ErrUnauthenticated
	}
	return authoredRecipe(s.db.WithContext(ctx), owner, slug, editor)
}

// Edit applies scalar changes and the ingredient formset diff atomically.
func (s *RecipeService) Edit(ctx context.Context, owner, slug string, editor *models.User, form *types.RecipeForm) (*models.Recipe, error) {
	if editor == nil {
		return nil, ErrUnauthenticated
	}

	verr, rows := validateRecipeForm(form)
	var updatedSlug string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := authoredRecipe(tx, owner, slug, editor)
		if err != nil {
			return err
		}
		if err := checkChoices(tx, form, verr); err != nil {
			return err
		}
		plan := planIngredientMerge(recipe.ID, recipe.Ingredients, rows, verr)
		if err := verr.OrNil(); err != nil {
			return err
		}

		if form.Title != recipe.Title {
			newSlug, err := uniqueSlug(tx, form.Title, recipe.ID)
			if err != nil {
				return err
			}
			recipe.Slug = newSlug
		}
		recipe.Title = form.Title
		recipe.CourseID = form.CourseID
		recipe.CuisineID = form.CuisineID
		recipe.Info = form.Info
		recipe.CookTime = form.CookTime
		recipe.Servings = form.Servings
		recipe.Shared = form.Shared
		recipe.Tags = models.ParseTags(form.Tags)
		recipe.Directions = form.Directions

		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}
		if err := plan.apply(tx, recipe.ID); err != nil {
			return err
		}
		updatedSlug = recipe.Slug
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetBySlug(ctx, updatedSlug, editor)
}

// Delete removes an authored recipe with its ingredients, rating, votes
// and stored references.
func (s *RecipeService) Delete(ctx context.Context, owner, slug string, editor *models.User) error {
	if editor == nil {
		return ErrUnauthenticated
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := authoredRecipe(tx, owner, slug, editor)
		if err != nil {
			return err
		}
		for _, child := range []interface{}{&models.Ingredient{}, &models.Vote{}, &models.Rating{}, &models.StoredRecipe{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete recipe children: %w", err)
			}
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", recipe.ID).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

// List returns recipes visible to viewer, newest first unless a query is
// given. On postgres a query orders by embedding distance; other dialects
// fall back to keyword matching only.
func (s *RecipeService) List(ctx context.Context, viewer *models.User, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").Preload("Course").Preload("Cuisine").Preload("Rating")

	if viewer != nil {
		query = query.Where("(recipes.shared = ? OR recipes.author_id = ?)", models.Public, viewer.ID)
	} else {
		query = query.Where("recipes.shared = ?", models.Public)
	}
	if filter.Author != "" {
		query = query.Joins("JOIN users ON users.id = recipes.author_id").Where("users.username = ?", filter.Author)
	}
	if filter.CourseID != 0 {
		query = query.Where("recipes.course_id = ?", filter.CourseID)
	}
	if filter.CuisineID != 0 {
		query = query.Where("recipes.cuisine_id = ?", filter.CuisineID)
	}

	q := strings.TrimSpace(filter.Query)
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("(LOWER(recipes.title) LIKE ? OR LOWER(recipes.info) LIKE ? OR LOWER(recipes.tags) LIKE ?)", like, like, like)
	}
	// A later Order call would replace an OrderBy expression, so the
	// distance and its tie-break go in one clause.
	if q != "" && s.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "recipes.embedding <-> ?, recipes.created_at DESC", Vars: []interface{}{models.Embed(q)}},
		})
	} else {
		query = query.Order("recipes.created_at DESC")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	query = query.Limit(limit)
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Choices returns the course and cuisine options for the recipe form.
func (s *RecipeService) Choices(ctx context.Context) ([]models.Course, []models.Cuisine, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&courses).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list courses: %w", err)
	}
	var cuisines []models.Cuisine
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&cuisines).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to list cuisines: %w", err)
	}
	return courses, cuisines, nil
}

func loadRecipe(db *gorm.DB, query string, args ...interface{}) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.Preload("Author").Preload("Course").Preload("Cuisine").Preload("Rating").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where(query, args...).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	return &recipe, nil
}

// authoredRecipe loads a recipe for a mutation. Missing recipes, a
// mismatched owner segment and non-author editors all read as ErrNotFound.
func authoredRecipe(db *gorm.DB, owner, slug string, editor *models.User) (*models.Recipe, error) {
	recipe, err := loadRecipe(db, "recipes.slug = ?", slug)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != editor.ID {
		return nil, ErrNotFound
	}
	if owner != "" && (recipe.Author == nil || recipe.Author.Username != owner) {
		return nil, ErrNotFound
	}
	return recipe, nil
}

// visibleRecipe loads a recipe by id for votes and favorites.
func visibleRecipe(db *gorm.DB, id uuid.UUID, viewer *models.User) (*models.Recipe, error) {
	var recipe models.Recipe
	err := db.Where("id = ?", id).Take(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}
	if !recipe.VisibleTo(viewer) {
		return nil, ErrNotFound
	}
	return &recipe, nil
}
