package queue

import "go.mongodb.org/mongo-driver/bson/primitive"

const Exchange = "recipe.events"

type UserRegistered struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
}

type UserLoggedIn struct {
	UserID primitive.ObjectID `json:"user_id"`
	Email  string             `json:"email"`
}

type RecipeCreated struct {
	UserID   primitive.ObjectID `json:"user_id"`
	RecipeID primitive.ObjectID `json:"recipe_id"`
	Label    string             `json:"label"`
}
