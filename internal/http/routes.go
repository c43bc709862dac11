package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(CORS())
	r.Use(Metrics())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// uploaded images are served straight from disk
	if h.Images != nil {
		r.Static("/images", h.Images.BaseDir)
	}

	auth := h.RequireAuth()
	rl := h.RateLimit()

	r.POST("/signup", rl, h.Signup)
	r.POST("/login", rl, h.Login)
	r.GET("/userData", auth, h.UserData)
	r.POST("/updateUser", auth, h.UpdateUser)
	r.POST("/logout", auth, h.Logout)

	r.GET("/getRecipes", auth, h.GetRecipes)
	r.GET("/getRecipe/:id", auth, h.GetRecipe)
	r.GET("/getLikedRecipes", auth, h.GetLikedRecipes)
	r.POST("/addRecipe", auth, h.AddRecipe)
	r.POST("/addLikedRecipe", auth, h.AddLikedRecipe)
	r.POST("/editRecipe/:id", auth, h.EditRecipe)
	r.DELETE("/deleteRecipe/:id", auth, h.DeleteRecipe)
	r.DELETE("/deleteLikedRecipe/:id", auth, h.DeleteLikedRecipe)

	return r
}
