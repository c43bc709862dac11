package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"  json:"id"`
	FirstName    string               `bson:"firstName"      json:"firstName"`
	LastName     string               `bson:"lastName"       json:"lastName"`
	Email        string               `bson:"email"          json:"email"`
	PasswordHash string               `bson:"password"       json:"-"`
	Image        string               `bson:"image"          json:"image"`
	Recipes      []primitive.ObjectID `bson:"recipes"        json:"recipes"`
	LikedRecipes []primitive.ObjectID `bson:"likedRecipes"   json:"likedRecipes"`
	Tokens       []string             `bson:"tokens"         json:"-"`
}

// Profile is the display projection of a user: no hash, no tokens,
// no reference arrays.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image"`
	Email     string `json:"email"`
}

func (u *User) Profile() Profile {
	return Profile{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Image:     u.Image,
		Email:     u.Email,
	}
}

// HasToken reports whether tok is still a member of the user's active
// token set. Signature verification alone is not enough: logout removes
// the token from this set and that is the only revocation path.
func (u *User) HasToken(tok string) bool {
	for _, t := range u.Tokens {
		if t == tok {
			return true
		}
	}
	return false
}
