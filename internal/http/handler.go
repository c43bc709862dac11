package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tazhibayda/recipe-service/internal/domain"
	"github.com/tazhibayda/recipe-service/internal/images"
	"github.com/tazhibayda/recipe-service/internal/queue"
	"github.com/tazhibayda/recipe-service/internal/repo"
)

type Handler struct {
	Users           repo.UserRepository
	Recipes         repo.RecipeRepository
	Images          *images.Store
	Store           *repo.Store // nil outside of a real mongo deployment
	JWTSecret       string
	Redis           *repo.Redis
	RateLimitPerMin int
	Events          queue.Publisher
}

func NewHandler(users repo.UserRepository, recipes repo.RecipeRepository, imgs *images.Store,
	jwtSecret string, pub queue.Publisher) *Handler {
	return &Handler{
		Users:     users,
		Recipes:   recipes,
		Images:    imgs,
		JWTSecret: jwtSecret,
		Events:    pub,
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// authUser returns the user and raw token the guard attached.
func authUser(c *gin.Context) (*domain.User, string) {
	u, _ := c.Get(authUserKey)
	t, _ := c.Get(authTokenKey)
	return u.(*domain.User), t.(string)
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Store != nil {
		if err := h.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
