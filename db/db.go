package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection    *mongo.Collection
	TagCollection     *mongo.Collection
	ContentCollection *mongo.Collection
	LinksCollection   *mongo.Collection
	Client            *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	clientOptions := options.Client().ApplyURI(uri)
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database("braindb").Collection("users")
	TagCollection = Client.Database("braindb").Collection("tags")
	ContentCollection = Client.Database("braindb").Collection("content")
	LinksCollection = Client.Database("braindb").Collection("links")

	ensureIndexes()
}

// ensureIndexes creates the unique indexes the stores rely on. The tags.title
// index is the backstop for concurrent resolve-or-create of the same title.
func ensureIndexes() {
	unique := options.Index().SetUnique(true)

	indexes := []struct {
		coll *mongo.Collection
		keys bson.D
	}{
		{UserCollection, bson.D{{Key: "username", Value: 1}}},
		{TagCollection, bson.D{{Key: "title", Value: 1}}},
		{LinksCollection, bson.D{{Key: "linkid", Value: 1}}},
		{ContentCollection, bson.D{{Key: "contentid", Value: 1}}},
	}
	for _, idx := range indexes {
		_, err := idx.coll.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
			Keys:    idx.keys,
			Options: unique,
		})
		if err != nil {
			log.Printf("Failed to create index on %s: %v", idx.coll.Name(), err)
		}
	}
}
