package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/internal/service"
)

// RouteGuards are the middlewares handlers attach to their routes. Limits
// are nil when rate limiting is disabled.
type RouteGuards struct {
	RequireLogin gin.HandlerFunc
	CreateLimit  gin.HandlerFunc
	VoteLimit    gin.HandlerFunc
}

// protect returns the login guard followed by any non-nil extra guards and
// the handler itself.
func (g RouteGuards) protect(handler gin.HandlerFunc, extra ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{g.RequireLogin}
	for _, h := range extra {
		if h != nil {
			chain = append(chain, h)
		}
	}
	return append(chain, handler)
}

// respondError maps service errors to HTTP responses. Validation errors get
// 400 here; form handlers render them with the form instead.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "errors": verr.Fields})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
