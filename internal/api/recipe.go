package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/internal/middleware"
	"github.com/pageza/recipebox/internal/models"
	"github.com/pageza/recipebox/internal/service"
	"github.com/pageza/recipebox/internal/types"
)

type RecipeHandler struct {
	recipes   service.IRecipeService
	ratings   service.IRatingService
	favorites service.IFavoritesService
	guards    RouteGuards
	logger    *zap.Logger
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	ratings service.IRatingService,
	favorites service.IFavoritesService,
	guards RouteGuards,
	logger *zap.Logger,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		ratings:   ratings,
		favorites: favorites,
		guards:    guards,
		logger:    logger,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/new", h.guards.protect(h.NewRecipeForm)...)
		recipes.POST("/new", h.guards.protect(h.CreateRecipe, h.guards.CreateLimit)...)
		recipes.GET("/view/:slug", h.GetRecipe)
		recipes.GET("/print/:slug", h.PrintRecipe)
		recipes.GET("/edit/:user/:slug", h.guards.protect(h.EditRecipeForm)...)
		recipes.POST("/edit/:user/:slug", h.guards.protect(h.UpdateRecipe)...)
		recipes.POST("/delete/:user/:slug", h.guards.protect(h.DeleteRecipe)...)
	}
}

// RecipePath is the detail page of a recipe.
func RecipePath(slug string) string {
	return "/recipes/view/" + slug
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		Query:  c.Query("q"),
		Author: c.Query("author"),
	}
	if v, err := strconv.ParseUint(c.Query("course"), 10, 64); err == nil {
		filter.CourseID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("cuisine"), 10, 64); err == nil {
		filter.CuisineID = uint(v)
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		filter.Offset = v
	}

	recipes, err := h.recipes.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
	})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	viewer := middleware.CurrentUser(c)
	recipe, err := h.recipes.GetBySlug(c.Request.Context(), c.Param("slug"), viewer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	summary, err := h.ratings.Summary(c.Request.Context(), recipe.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	stored, err := h.favorites.IsStored(c.Request.Context(), recipe.ID, viewer)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe":    recipe,
		"rating":    summary,
		"stored":    stored,
		"is_author": viewer != nil && viewer.ID == recipe.AuthorID,
	})
}

func (h *RecipeHandler) PrintRecipe(c *gin.Context) {
	recipe, err := h.recipes.PrintView(c.Request.Context(), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.HTML(http.StatusOK, PrintTemplate, gin.H{"recipe": recipe})
}

func (h *RecipeHandler) NewRecipeForm(c *gin.Context) {
	h.renderForm(c, withExtraRows(types.RecipeForm{}), nil, nil)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	form, verr := bindRecipeForm(c)
	if !verr.Empty() {
		h.renderForm(c, *form, verr, nil)
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), middleware.CurrentUser(c), form)
	if err != nil {
		if errors.As(err, &verr) {
			h.renderForm(c, *form, verr, nil)
			return
		}
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("recipe created", zap.String("slug", recipe.Slug), zap.String("author", recipe.AuthorID.String()))
	c.Redirect(http.StatusFound, RecipePath(recipe.Slug))
}

func (h *RecipeHandler) EditRecipeForm(c *gin.Context) {
	recipe, err := h.recipes.GetForEdit(c.Request.Context(), c.Param("user"), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.renderForm(c, withExtraRows(types.FormFromRecipe(recipe)), nil, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	editor := middleware.CurrentUser(c)
	form, verr := bindRecipeForm(c)
	if !verr.Empty() {
		// Unknown recipes still answer 404 before form errors are shown
		recipe, err := h.recipes.GetForEdit(c.Request.Context(), c.Param("user"), c.Param("slug"), editor)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		h.renderForm(c, *form, verr, recipe)
		return
	}

	recipe, err := h.recipes.Edit(c.Request.Context(), c.Param("user"), c.Param("slug"), editor, form)
	if err != nil {
		if errors.As(err, &verr) {
			h.renderForm(c, *form, verr, nil)
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.Redirect(http.StatusFound, RecipePath(recipe.Slug))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	err := h.recipes.Delete(c.Request.Context(), c.Param("user"), c.Param("slug"), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("recipe deleted", zap.String("slug", c.Param("slug")))
	c.Redirect(http.StatusFound, "/recipes")
}

// renderForm answers 200 with the form, its choices and any field errors.
func (h *RecipeHandler) renderForm(c *gin.Context, form types.RecipeForm, verr *service.ValidationError, recipe *models.Recipe) {
	courses, cuisines, err := h.recipes.Choices(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	body := gin.H{
		"form":     form,
		"courses":  courses,
		"cuisines": cuisines,
	}
	if recipe != nil {
		body["recipe"] = recipe
	}
	if verr != nil && !verr.Empty() {
		body["errors"] = verr.Fields
	}
	c.JSON(http.StatusOK, body)
}
