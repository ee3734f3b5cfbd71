package auth

import (
	"context"
	"errors"

	"secondbrain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrDuplicateUser = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, userID string) (bool, error)
	Insert(ctx context.Context, user models.User) error
}

// MongoUserStore implements UserStore on the users collection.
type MongoUserStore struct {
	Coll *mongo.Collection
}

func (s *MongoUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.Coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) Exists(ctx context.Context, userID string) (bool, error) {
	err := s.Coll.FindOne(ctx, bson.M{"userid": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, user models.User) error {
	_, err := s.Coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateUser
	}
	return err
}
