package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/recipebox/internal/middleware"
	"github.com/pageza/recipebox/internal/service"
	"github.com/pageza/recipebox/internal/types"
)

const (
	defaultNext      = "/recipes"
	invalidLoginText = "Please enter a correct username and password."
)

type AuthHandler struct {
	authService  service.IAuthService
	secureCookie bool
	logger       *zap.Logger
}

func NewAuthHandler(authService service.IAuthService, secureCookie bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	accounts := router.Group("/accounts")
	{
		accounts.GET("/login", h.LoginForm)
		accounts.POST("/login", h.Login)
		accounts.POST("/token", h.Token)
		accounts.POST("/register", h.Register)
		accounts.POST("/logout", h.Logout)
	}
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"next": safeNext(c.Query("next"))})
}

// Login sets the session cookie and redirects to next.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"errors": gin.H{"__all__": invalidLoginText}, "next": safeNext(req.Next)})
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	_, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusOK, gin.H{"errors": gin.H{"__all__": invalidLoginText}, "next": safeNext(req.Next)})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(service.TokenTTL.Seconds()), "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, safeNext(req.Next))
}

// Token returns a bearer token for API clients.
func (h *AuthHandler) Token(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": invalidLoginText})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"username": "A user with that username already exists."}})
			return
		}
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("user registered", zap.String("username", user.Username))
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, defaultNext)
}

// safeNext only allows local absolute paths as redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return defaultNext
	}
	return next
}
