package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/internal/middleware"
	"github.com/pageza/recipebox/internal/service"
	"github.com/pageza/recipebox/internal/types"
)

// FavoritesPath lists the current user's stored recipes.
const FavoritesPath = "/recipes/favorites"

type FavoritesHandler struct {
	favorites service.IFavoritesService
	guards    RouteGuards
	logger    *zap.Logger
}

func NewFavoritesHandler(favorites service.IFavoritesService, guards RouteGuards, logger *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, guards: guards, logger: logger}
}

func (h *FavoritesHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/store/:id", h.guards.protect(h.Store)...)
	router.POST("/recipes/unstore", h.guards.protect(h.Unstore)...)
	router.GET(FavoritesPath, h.guards.protect(h.List)...)
}

func (h *FavoritesHandler) Store(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	status, err := h.favorites.Store(c.Request.Context(), recipeID, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status.String(),
		"message": status.Message(),
	})
}

func (h *FavoritesHandler) Unstore(c *gin.Context) {
	var req types.UnstoreRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipe_id is required"})
		return
	}
	// Ids that cannot name a recipe are as absent as unknown ones
	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	if err := h.favorites.Unstore(c.Request.Context(), recipeID, middleware.CurrentUser(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, FavoritesPath)
}

func (h *FavoritesHandler) List(c *gin.Context) {
	stored, err := h.favorites.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stored": stored,
	})
}
