package repo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tazhibayda/recipe-service/internal/domain"
)

type RecipeRepository interface {
	InsertRecipe(ctx context.Context, r *domain.Recipe) error
	FindRecipeByID(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error)
	FindRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error)
	ReplaceRecipe(ctx context.Context, id primitive.ObjectID, r *domain.Recipe) error
	DeleteRecipe(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error)
}

func (s *Store) InsertRecipe(ctx context.Context, r *domain.Recipe) error {
	res, err := s.colRecipes.InsertOne(ctx, r)
	if err != nil {
		return err
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *Store) FindRecipeByID(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error) {
	var r domain.Recipe
	err := s.colRecipes.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// FindRecipesByIDs resolves a user's reference array with a single $in
// query; storage order, not array order.
func (s *Store) FindRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Recipe, error) {
	if len(ids) == 0 {
		return []domain.Recipe{}, nil
	}
	cur, err := s.colRecipes.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Recipe{}
	for cur.Next(ctx) {
		var r domain.Recipe
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}

func (s *Store) ReplaceRecipe(ctx context.Context, id primitive.ObjectID, r *domain.Recipe) error {
	_, err := s.colRecipes.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"label":           r.Label,
			"image":           r.Image,
			"ingredientLines": r.IngredientLines,
			"source":          r.Source,
			"totalTime":       r.TotalTime,
			"yield":           r.Yield,
		}})
	return err
}

// DeleteRecipe removes the document and returns it, or (nil, nil) when
// no recipe has that id. A second delete of the same id therefore fails
// not-found upstream.
func (s *Store) DeleteRecipe(ctx context.Context, id primitive.ObjectID) (*domain.Recipe, error) {
	var r domain.Recipe
	err := s.colRecipes.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&r)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
