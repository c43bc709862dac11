package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client     *mongo.Client
	DB         *mongo.Database
	colUsers   *mongo.Collection
	colRecipes *mongo.Collection
}

func NewStore(ctx context.Context, uri, dbname string) (*Store, error) {
	cli, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetRetryWrites(true).
		SetMaxPoolSize(50),
	)
	if err != nil {
		return nil, err
	}
	if err := cli.Ping(ctx, nil); err != nil {
		return nil, err
	}
	db := cli.Database(dbname)
	return &Store{
		Client:     cli,
		DB:         db,
		colUsers:   db.Collection("users"),
		colRecipes: db.Collection("recipes"),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error { return s.Client.Disconnect(ctx) }

// EnsureIndexes creates the unique email index. The duplicate-email
// check in the signup path is a lookup first, but the index closes the
// race between concurrent signups with the same address.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.colUsers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}

func IsDup(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce *mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return false
}
