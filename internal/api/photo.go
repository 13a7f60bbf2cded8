package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/internal/middleware"
	"github.com/pageza/recipebox/internal/service"
)

type PhotoHandler struct {
	photos service.IPhotoService
	guards RouteGuards
	logger *zap.Logger
}

// NewPhotoHandler creates the upload handler. A nil service answers 503.
func NewPhotoHandler(photos service.IPhotoService, guards RouteGuards, logger *zap.Logger) *PhotoHandler {
	return &PhotoHandler{photos: photos, guards: guards, logger: logger}
}

func (h *PhotoHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/photo/:user/:slug", h.guards.protect(h.Upload)...)
}

func (h *PhotoHandler) Upload(c *gin.Context) {
	if h.photos == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Photo uploads are not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxPhotoBytes+maxFormMemory)
	header, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"errors": gin.H{"photo": "This field is required."}})
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxPhotoBytes+1))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	recipe, err := h.photos.Upload(c.Request.Context(), c.Param("user"), c.Param("slug"), middleware.CurrentUser(c), service.PhotoUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusOK, gin.H{"errors": verr.Fields})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe": recipe,
		"photo":  recipe.Photo,
	})
}
