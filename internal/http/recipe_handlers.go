package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/tazhibayda/recipe-service/internal/domain"
	"github.com/tazhibayda/recipe-service/internal/images"
	"github.com/tazhibayda/recipe-service/internal/log"
	"github.com/tazhibayda/recipe-service/internal/metrics"
	"github.com/tazhibayda/recipe-service/internal/queue"
)

// GetRecipes godoc
// @Summary List the recipes owned by the current user
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Recipe
// @Failure 503 {object} map[string]string
// @Router /getRecipes [get]
func (h *Handler) GetRecipes(c *gin.Context) {
	u, _ := authUser(c)
	recipes, err := h.Recipes.FindRecipesByIDs(c.Request.Context(), u.Recipes)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipes lookup failed.")
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// GetRecipe godoc
// @Summary Get a single recipe
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Param id path string true "recipe id"
// @Success 200 {object} domain.Recipe
// @Failure 503 {object} map[string]string
// @Router /getRecipe/{id} [get]
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "Invalid recipe id.")
		return
	}
	r, err := h.Recipes.FindRecipeByID(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe lookup failed.")
		return
	}
	if r == nil {
		fail(c, http.StatusServiceUnavailable, "Recipe not found!")
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetLikedRecipes godoc
// @Summary List the current user's liked recipes
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /getLikedRecipes [get]
func (h *Handler) GetLikedRecipes(c *gin.Context) {
	u, _ := authUser(c)
	recipes, err := h.Recipes.FindRecipesByIDs(c.Request.Context(), u.LikedRecipes)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipes lookup failed.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "Liked recipes.", "status": 200, "recipes": recipes})
}

// recipeForm validates the five required text fields and parses the
// numeric ones. ingredientLines arrives either comma-delimited (file
// uploads) or as a JSON array string (externally hosted recipes).
func recipeForm(c *gin.Context, jsonIngredients bool) (*domain.Recipe, error) {
	label := strings.TrimSpace(c.PostForm("label"))
	rawIngredients := strings.TrimSpace(c.PostForm("ingredientLines"))
	source := strings.TrimSpace(c.PostForm("source"))
	rawTime := strings.TrimSpace(c.PostForm("totalTime"))
	rawYield := strings.TrimSpace(c.PostForm("yield"))

	switch {
	case label == "":
		return nil, domain.Validation("Please provide recipe title!")
	case rawIngredients == "":
		return nil, domain.Validation("Please provide recipe ingredients!")
	case source == "":
		return nil, domain.Validation("Please provide author name!")
	case rawTime == "":
		return nil, domain.Validation("Please provide recipe making time!")
	case rawYield == "":
		return nil, domain.Validation("Please provide total number of servings!")
	}

	var lines []string
	if jsonIngredients {
		if err := json.Unmarshal([]byte(rawIngredients), &lines); err != nil {
			return nil, domain.Validation("Please provide recipe ingredients!")
		}
	} else {
		lines = strings.Split(rawIngredients, ",")
	}

	totalTime, err := strconv.Atoi(rawTime)
	if err != nil {
		return nil, domain.Validation("Please provide recipe making time!")
	}
	yield, err := strconv.Atoi(rawYield)
	if err != nil {
		return nil, domain.Validation("Please provide total number of servings!")
	}

	return &domain.Recipe{
		Label:           label,
		IngredientLines: lines,
		Source:          source,
		TotalTime:       totalTime,
		Yield:           yield,
	}, nil
}

// AddRecipe godoc
// @Summary Create a recipe (uploaded image or external URL)
// @Tags recipes
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Success 201 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /addRecipe [post]
func (h *Handler) AddRecipe(c *gin.Context) {
	u, _ := authUser(c)

	urlMode := strings.TrimSpace(c.PostForm("url")) != ""
	r, err := recipeForm(c, urlMode)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	if urlMode {
		r.Image = strings.TrimSpace(c.PostForm("image"))
	} else {
		fh, err := c.FormFile("image")
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "Please provide recipe image file!")
			return
		}
		if !images.AllowedType(fh.Filename) {
			fail(c, http.StatusServiceUnavailable, "Only jpg, jpeg and png images are allowed.")
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "File uploading faild.")
			return
		}
		defer f.Close()
		r.Image, err = h.Images.SaveRecipe(f, fh.Filename)
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "File uploading faild.")
			return
		}
	}

	if err := h.Recipes.InsertRecipe(c.Request.Context(), r); err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe creation failed.")
		return
	}
	// non-atomic with the insert above: a crash here leaves an
	// unreferenced recipe document
	if err := h.Users.PushRecipeRef(c.Request.Context(), u.ID, r.ID, false); err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe creation failed.")
		return
	}

	metrics.RecipesCreated.Inc()
	reqID := c.GetString(requestIDKey)
	go func() {
		if err := h.Events.Publish(context.Background(), queue.Exchange, "recipe.created",
			queue.RecipeCreated{UserID: u.ID, RecipeID: r.ID, Label: r.Label}, reqID); err != nil {
			log.L().Warn("event publish failed",
				zap.String("key", "recipe.created"), zap.Error(err))
		}
	}()

	c.JSON(http.StatusCreated, gin.H{"result": "Recipe created successfully.", "status": 201})
}

// AddLikedRecipe godoc
// @Summary Save a copy of another recipe into the liked list
// @Tags recipes
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /addLikedRecipe [post]
func (h *Handler) AddLikedRecipe(c *gin.Context) {
	u, _ := authUser(c)

	r, err := recipeForm(c, true)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	r.Image = strings.TrimSpace(c.PostForm("image"))
	r.RecipeID = strings.TrimSpace(c.PostForm("recipeId"))

	if err := h.Recipes.InsertRecipe(c.Request.Context(), r); err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe creation failed.")
		return
	}
	// liking the same recipe twice stores two copies; nothing
	// deduplicates here
	if err := h.Users.PushRecipeRef(c.Request.Context(), u.ID, r.ID, true); err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe creation failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "done", "status": 200, "recipe": r})
}

// EditRecipe godoc
// @Summary Replace a recipe's fields, optionally with a new image
// @Tags recipes
// @Security BearerAuth
// @Accept mpfd
// @Produce json
// @Param id path string true "recipe id"
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /editRecipe/{id} [post]
func (h *Handler) EditRecipe(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "Invalid recipe id.")
		return
	}

	existing, err := h.Recipes.FindRecipeByID(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe lookup failed.")
		return
	}
	if existing == nil {
		fail(c, http.StatusServiceUnavailable, "Recipe not found!")
		return
	}

	r, err := recipeForm(c, false)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	r.Image = existing.Image
	if fh, err := c.FormFile("image"); err == nil {
		if !images.AllowedType(fh.Filename) {
			fail(c, http.StatusServiceUnavailable, "Only jpg, jpeg and png images are allowed.")
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "File uploading faild.")
			return
		}
		defer f.Close()

		r.Image, err = h.Images.SaveRecipe(f, fh.Filename)
		if err != nil {
			fail(c, http.StatusServiceUnavailable, "File uploading faild.")
			return
		}

		// the old image goes only after the replacement is on disk
		if err := h.Images.Remove(existing.Image); err != nil {
			metrics.ImageCleanupFailures.Inc()
			log.L().Warn("recipe image cleanup failed",
				zap.String("path", existing.Image), zap.Error(err))
		}
	}

	if err := h.Recipes.ReplaceRecipe(c.Request.Context(), id, r); err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe update failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "Recipe updated successfully.", "status": 200})
}

// DeleteRecipe godoc
// @Summary Delete an owned recipe and its reference
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Param id path string true "recipe id"
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /deleteRecipe/{id} [delete]
func (h *Handler) DeleteRecipe(c *gin.Context) {
	h.deleteRecipe(c, false)
}

// DeleteLikedRecipe godoc
// @Summary Delete a liked recipe copy and its reference
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Param id path string true "recipe id"
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]string
// @Router /deleteLikedRecipe/{id} [delete]
func (h *Handler) DeleteLikedRecipe(c *gin.Context) {
	h.deleteRecipe(c, true)
}

func (h *Handler) deleteRecipe(c *gin.Context, liked bool) {
	u, _ := authUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "Invalid recipe id.")
		return
	}

	r, err := h.Recipes.DeleteRecipe(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe not deleted!")
		return
	}
	if r == nil {
		// a repeated delete of the same id lands here
		fail(c, http.StatusServiceUnavailable, "Recipe not deleted!")
		return
	}

	if err := h.Users.PullRecipeRef(c.Request.Context(), u.ID, id, liked); err != nil {
		fail(c, http.StatusServiceUnavailable, "Recipe not deleted!")
		return
	}

	// liked copies reference possibly shared image files, so only an
	// owned delete removes the file
	if !liked {
		if err := h.Images.Remove(r.Image); err != nil {
			metrics.ImageCleanupFailures.Inc()
			log.L().Warn("recipe image cleanup failed",
				zap.String("path", r.Image), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"result": "Recipe deleted successfully."})
}
