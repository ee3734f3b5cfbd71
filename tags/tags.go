package tags

import (
	"context"
	"errors"

	"secondbrain/models"
	"secondbrain/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("tag not found")
var ErrDuplicateTag = errors.New("tag already exists")

// Store is the persistence surface the registry needs. *mongo.Collection is
// wrapped by MongoStore; tests substitute an in-memory fake.
type Store interface {
	FindByTitle(ctx context.Context, title string) (*models.Tag, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
	Insert(ctx context.Context, tag models.Tag) error
}

// Registry deduplicates free-text tag titles into stable ids.
type Registry struct {
	store Store
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// ResolveOrCreate maps each title to a tag id, creating missing tags lazily.
// Output order matches input order; repeated titles repeat the same id.
// Two concurrent requests may both try to create a brand-new title; the
// unique index on title makes the loser's insert fail, and the loser then
// re-reads the winner's row.
func (reg *Registry) ResolveOrCreate(ctx context.Context, titles []string) ([]string, error) {
	ids := make([]string, 0, len(titles))
	resolved := make(map[string]string)

	for _, title := range titles {
		if id, ok := resolved[title]; ok {
			ids = append(ids, id)
			continue
		}

		tag, err := reg.store.FindByTitle(ctx, title)
		if err == nil {
			resolved[title] = tag.TagID
			ids = append(ids, tag.TagID)
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		fresh := models.Tag{
			TagID: "t" + utils.GenerateRandomString(10),
			Title: title,
		}
		err = reg.store.Insert(ctx, fresh)
		if err == nil {
			resolved[title] = fresh.TagID
			ids = append(ids, fresh.TagID)
			continue
		}
		if !errors.Is(err, ErrDuplicateTag) {
			return nil, err
		}

		// Lost the create race; the winner's row must exist now.
		tag, err = reg.store.FindByTitle(ctx, title)
		if err != nil {
			return nil, err
		}
		resolved[title] = tag.TagID
		ids = append(ids, tag.TagID)
	}
	return ids, nil
}

// TitlesByID expands tag ids to their titles, preserving id order. Ids that
// no longer resolve are skipped rather than failing the whole read.
func (reg *Registry) TitlesByID(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	found, err := reg.store.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(found))
	for _, tag := range found {
		byID[tag.TagID] = tag.Title
	}
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		if title, ok := byID[id]; ok {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// MongoStore implements Store on a tags collection.
type MongoStore struct {
	Coll *mongo.Collection
}

func (s *MongoStore) FindByTitle(ctx context.Context, title string) (*models.Tag, error) {
	var tag models.Tag
	err := s.Coll.FindOne(ctx, bson.M{"title": title}).Decode(&tag)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *MongoStore) FindByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	cursor, err := s.Coll.Find(ctx, bson.M{"tagid": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Tag
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Insert(ctx context.Context, tag models.Tag) error {
	_, err := s.Coll.InsertOne(ctx, tag)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateTag
	}
	return err
}
