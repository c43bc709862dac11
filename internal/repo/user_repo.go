package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tazhibayda/recipe-service/internal/domain"
)

// UserRepository is what the handlers need from user storage. *Store is
// the mongo implementation; *Memory backs the tests.
type UserRepository interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddToken(ctx context.Context, id primitive.ObjectID, token string) error
	RemoveToken(ctx context.Context, id primitive.ObjectID, token string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, up ProfileUpdate) error
	PushRecipeRef(ctx context.Context, id, recipeID primitive.ObjectID, liked bool) error
	PullRecipeRef(ctx context.Context, id, recipeID primitive.ObjectID, liked bool) error
}

// ProfileUpdate is the set of user fields /updateUser may change. Email,
// reference arrays and the token set are left untouched by the update.
type ProfileUpdate struct {
	FirstName    string
	LastName     string
	Image        string
	PasswordHash string
}

func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	if u.Recipes == nil {
		u.Recipes = []primitive.ObjectID{}
	}
	if u.LikedRecipes == nil {
		u.LikedRecipes = []primitive.ObjectID{}
	}
	if u.Tokens == nil {
		u.Tokens = []string{}
	}
	res, err := s.colUsers.InsertOne(ctx, u)
	if IsDup(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var u domain.User
	err := s.colUsers.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) AddToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"tokens": token}})
	return err
}

// RemoveToken pulls exactly the presented token; other sessions for the
// same user stay valid.
func (s *Store) RemoveToken(ctx context.Context, id primitive.ObjectID, token string) error {
	_, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{"tokens": token}})
	return err
}

func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, up ProfileUpdate) error {
	_, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"firstName": up.FirstName,
			"lastName":  up.LastName,
			"image":     up.Image,
			"password":  up.PasswordHash,
		}})
	return err
}

func refField(liked bool) string {
	if liked {
		return "likedRecipes"
	}
	return "recipes"
}

func (s *Store) PushRecipeRef(ctx context.Context, id, recipeID primitive.ObjectID, liked bool) error {
	_, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{refField(liked): recipeID}})
	return err
}

func (s *Store) PullRecipeRef(ctx context.Context, id, recipeID primitive.ObjectID, liked bool) error {
	_, err := s.colUsers.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$pull": bson.M{refField(liked): recipeID}})
	return err
}
