package testhelpers

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/internal/database"
	"github.com/pageza/recipebox/internal/models"
)

// FixturePassword is the password of every fixture user.
const FixturePassword = "password123"

// Fixtures are the rows loaded by LoadFixtures.
type Fixtures struct {
	Admin    *models.User
	User     *models.User
	User2    *models.User
	Main     models.Course
	Dessert  models.Course
	Mexican  models.Cuisine
	Italian  models.Cuisine
	Chili    *models.Recipe
	Password string
}

// SetupTestDB creates an isolated in-memory sqlite database with the schema
// migrated and lookup tables seeded.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.OpenSQLite(dsn, nil)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	ctx := context.Background()
	if err := database.RunMigrations(ctx, db, "", zap.NewNop()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	if err := database.Seed(ctx, db); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}
	return db
}

// LoadFixtures creates the users admin, testUser and testUser2 and the
// public recipe "Tasty Chili" owned by admin.
func LoadFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()

	f := &Fixtures{Password: FixturePassword}
	f.Admin = CreateUser(t, db, "admin")
	f.User = CreateUser(t, db, "testUser")
	f.User2 = CreateUser(t, db, "testUser2")

	mustFind(t, db, &f.Main, "Main")
	mustFind(t, db, &f.Dessert, "Dessert")
	mustFind(t, db, &f.Mexican, "Mexican")
	mustFind(t, db, &f.Italian, "Italian")

	ingredients := []struct {
		quantity    float64
		measurement string
		title       string
	}{
		{1, "tsp", "black pepper"},
		{2, "lb", "ground beef"},
		{1, "", "onion"},
		{3, "clove", "garlic"},
		{2, "can", "kidney beans"},
		{1, "can", "crushed tomatoes"},
		{2, "tbsp", "chili powder"},
		{1, "tsp", "cumin"},
		{1, "tsp", "salt"},
		{1, "cup", "beef stock"},
		{1, "", "green pepper"},
		{0.5, "cup", "cheddar"},
	}

	chili := &models.Recipe{
		Title:      "Tasty Chili",
		Slug:       "tasty-chili",
		AuthorID:   f.Admin.ID,
		CourseID:   f.Main.ID,
		CuisineID:  f.Mexican.ID,
		Info:       "A hearty weeknight chili.",
		CookTime:   90,
		Servings:   8,
		Shared:     models.Public,
		Tags:       models.ParseTags("chili, beef, spicy"),
		Directions: "Brown the beef, add everything else and simmer.",
	}
	for i, ing := range ingredients {
		chili.Ingredients = append(chili.Ingredients, models.Ingredient{
			Position:    i,
			Quantity:    ing.quantity,
			Measurement: ing.measurement,
			Title:       ing.title,
		})
	}
	if err := db.Create(chili).Error; err != nil {
		t.Fatalf("failed to create fixture recipe: %v", err)
	}
	f.Chili = chili
	return f
}

// CreateUser inserts a user whose password is FixturePassword.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

// CreateRecipe inserts a recipe with a single ingredient.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, title, slug string, shared int) *models.Recipe {
	t.Helper()

	var course models.Course
	var cuisine models.Cuisine
	mustFind(t, db, &course, "Main")
	mustFind(t, db, &cuisine, "Italian")

	recipe := &models.Recipe{
		Title:     title,
		Slug:      slug,
		AuthorID:  author.ID,
		CourseID:  course.ID,
		CuisineID: cuisine.ID,
		CookTime:  30,
		Servings:  2,
		Shared:    shared,
		Ingredients: []models.Ingredient{
			{Position: 0, Quantity: 1, Measurement: "cup", Title: "flour"},
		},
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe %s: %v", title, err)
	}
	return recipe
}

func mustFind(t *testing.T, db *gorm.DB, dest interface{}, title string) {
	t.Helper()
	if err := db.Where("title = ?", title).First(dest).Error; err != nil {
		t.Fatalf("failed to load lookup %q: %v", title, err)
	}
}
