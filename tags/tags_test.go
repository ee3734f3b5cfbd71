package tags

import (
	"context"
	"errors"
	"testing"

	"secondbrain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with a unique-title constraint.
type memStore struct {
	byTitle map[string]models.Tag
	inserts int

	// failNextInsert simulates losing the create race: the insert reports a
	// duplicate and the "winner's" row appears in the store.
	failNextInsert *models.Tag
}

func newMemStore() *memStore {
	return &memStore{byTitle: make(map[string]models.Tag)}
}

func (s *memStore) FindByTitle(_ context.Context, title string) (*models.Tag, error) {
	tag, ok := s.byTitle[title]
	if !ok {
		return nil, ErrNotFound
	}
	return &tag, nil
}

func (s *memStore) FindByIDs(_ context.Context, ids []string) ([]models.Tag, error) {
	var out []models.Tag
	for _, tag := range s.byTitle {
		for _, id := range ids {
			if tag.TagID == id {
				out = append(out, tag)
			}
		}
	}
	return out, nil
}

func (s *memStore) Insert(_ context.Context, tag models.Tag) error {
	if s.failNextInsert != nil {
		winner := *s.failNextInsert
		s.byTitle[winner.Title] = winner
		s.failNextInsert = nil
		return ErrDuplicateTag
	}
	if _, ok := s.byTitle[tag.Title]; ok {
		return ErrDuplicateTag
	}
	s.byTitle[tag.Title] = tag
	s.inserts++
	return nil
}

func TestResolveOrCreatePreservesOrder(t *testing.T) {
	reg := NewRegistry(newMemStore())

	ids, err := reg.ResolveOrCreate(context.Background(), []string{"a", "a", "b"})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	assert.Equal(t, ids[0], ids[1], `repeated "a" must map to the same id`)
	assert.NotEqual(t, ids[0], ids[2], `"a" and "b" must get distinct ids`)
}

func TestResolveOrCreateReusesExistingTags(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)

	first, err := reg.ResolveOrCreate(context.Background(), []string{"ai", "ml"})
	require.NoError(t, err)

	second, err := reg.ResolveOrCreate(context.Background(), []string{"ml", "ai"})
	require.NoError(t, err)

	assert.Equal(t, first[0], second[1])
	assert.Equal(t, first[1], second[0])
	assert.Equal(t, 2, store.inserts, "no duplicate tag rows")
}

func TestResolveOrCreateMatchesExactTitle(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)

	ids, err := reg.ResolveOrCreate(context.Background(), []string{"AI", "ai"})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1], "lookup is by exact title; case matters")
}

func TestResolveOrCreateLostRace(t *testing.T) {
	store := newMemStore()
	store.failNextInsert = &models.Tag{TagID: "t_winner", Title: "fresh"}
	reg := NewRegistry(store)

	ids, err := reg.ResolveOrCreate(context.Background(), []string{"fresh"})
	require.NoError(t, err, "a lost create race resolves like a lookup")
	require.Len(t, ids, 1)
	assert.Equal(t, "t_winner", ids[0])
}

func TestResolveOrCreatePropagatesStoreErrors(t *testing.T) {
	reg := NewRegistry(&erroringStore{})

	_, err := reg.ResolveOrCreate(context.Background(), []string{"a"})
	assert.Error(t, err)
}

type erroringStore struct{}

func (e *erroringStore) FindByTitle(context.Context, string) (*models.Tag, error) {
	return nil, errors.New("store down")
}
func (e *erroringStore) FindByIDs(context.Context, []string) ([]models.Tag, error) {
	return nil, errors.New("store down")
}
func (e *erroringStore) Insert(context.Context, models.Tag) error {
	return errors.New("store down")
}

func TestTitlesByID(t *testing.T) {
	store := newMemStore()
	reg := NewRegistry(store)

	ids, err := reg.ResolveOrCreate(context.Background(), []string{"ai", "ml"})
	require.NoError(t, err)

	titles, err := reg.TitlesByID(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "ml"}, titles)

	titles, err = reg.TitlesByID(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, titles)
}
