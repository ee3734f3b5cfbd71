package content

import (
	"context"
	"errors"

	"secondbrain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("content not found")
var ErrUnknownOwner = errors.New("owner does not exist")

type Store interface {
	Insert(ctx context.Context, c models.Content) error
	FindByOwner(ctx context.Context, userID string) ([]models.Content, error)
	Delete(ctx context.Context, contentID string) error
}

// MongoStore implements Store on the content collection.
type MongoStore struct {
	Coll *mongo.Collection
}

func (s *MongoStore) Insert(ctx context.Context, c models.Content) error {
	_, err := s.Coll.InsertOne(ctx, c)
	return err
}

func (s *MongoStore) FindByOwner(ctx context.Context, userID string) ([]models.Content, error) {
	cursor, err := s.Coll.Find(ctx, bson.M{"userid": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Content
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, contentID string) error {
	res, err := s.Coll.DeleteOne(ctx, bson.M{"contentid": contentID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
