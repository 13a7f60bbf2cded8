package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipebox/config"
	"github.com/pageza/recipebox/internal/api"
	"github.com/pageza/recipebox/internal/middleware"
	"github.com/pageza/recipebox/internal/service"
)

// Dependencies are the collaborators the router wires into its handlers.
type Dependencies struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger
	// Redis enables rate limiting when set
	Redis *redis.Client
	// PhotoStore enables photo uploads when set
	PhotoStore service.PhotoStore
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	logger := deps.Logger

	router := gin.New()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	templates, err := api.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	// Initialize services
	authService := service.NewAuthService(deps.DB, cfg.JWTSecret)
	recipeService := service.NewRecipeService(deps.DB)
	ratingService := service.NewRatingService(deps.DB)
	favoritesService := service.NewFavoritesService(deps.DB)
	var photoService service.IPhotoService
	if deps.PhotoStore != nil {
		photoService = service.NewPhotoService(deps.DB, deps.PhotoStore, logger)
	}

	guards := api.RouteGuards{RequireLogin: middleware.RequireLogin(cfg.LoginURL)}
	if deps.Redis != nil {
		guards.CreateLimit = middleware.NewRecipeCreationRateLimiter(deps.Redis, cfg.RecipeCreateLimit, logger).Middleware()
		guards.VoteLimit = middleware.NewVoteRateLimiter(deps.Redis, cfg.VoteLimit, logger).Middleware()
	} else {
		logger.Warn("redis not configured, rate limiting disabled")
	}

	// Every route sees the principal when one is present
	router.Use(middleware.Authenticate(authService))

	root := &router.RouterGroup
	root.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/recipes")
	})

	api.NewHealthHandler(deps.DB).RegisterRoutes(root)
	api.NewAuthHandler(authService, cfg.Env.IsProduction(), logger).RegisterRoutes(root)
	api.NewRecipeHandler(recipeService, ratingService, favoritesService, guards, logger).RegisterRoutes(root)
	api.NewRatingHandler(ratingService, guards, logger).RegisterRoutes(root)
	api.NewFavoritesHandler(favoritesService, guards, logger).RegisterRoutes(root)
	api.NewPhotoHandler(photoService, guards, logger).RegisterRoutes(root)

	return router, nil
}
