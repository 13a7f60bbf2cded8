package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/internal/middleware"
	"github.com/pageza/recipebox/internal/service"
)

type RatingHandler struct {
	ratings service.IRatingService
	guards  RouteGuards
	logger  *zap.Logger
}

func NewRatingHandler(ratings service.IRatingService, guards RouteGuards, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{ratings: ratings, guards: guards, logger: logger}
}

func (h *RatingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/rate/:id/:score", h.guards.protect(h.Rate, h.guards.VoteLimit)...)
}

func (h *RatingHandler) Rate(c *gin.Context) {
	recipeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	score, err := strconv.Atoi(c.Param("score"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": gin.H{"score": "Enter a whole number."}})
		return
	}

	result, err := h.ratings.Vote(c.Request.Context(), recipeID, score, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
