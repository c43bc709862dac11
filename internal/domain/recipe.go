package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe carries no owner field; ownership lives in the referencing
// user's recipes/likedRecipes arrays.
type Recipe struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"       json:"id"`
	Label           string             `bson:"label"               json:"label"`
	Image           string             `bson:"image"               json:"image"`
	IngredientLines []string           `bson:"ingredientLines"     json:"ingredientLines"`
	Source          string             `bson:"source"              json:"source"`
	TotalTime       int                `bson:"totalTime"           json:"totalTime"`
	Yield           int                `bson:"yield"               json:"yield"`
	// RecipeID is set only on liked-recipe copies and points back at
	// the original recipe.
	RecipeID string `bson:"recipeId,omitempty" json:"recipeId,omitempty"`
}
