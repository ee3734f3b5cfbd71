package semantic

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/sqlite-vec/index/bruteforce"
)

// TextEmbedder is the embedding dependency of the local gateway; satisfied
// by *Embedder and by test stubs.
type TextEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LocalGateway keeps documents in process and ranks them with a brute-force
// cosine index. Used when no hosted vector store is configured; embeddings
// still come from the external embedding service.
type LocalGateway struct {
	embedder TextEmbedder

	mu    sync.RWMutex
	ids   []string
	vecs  [][]float32
	texts map[string]string
	index *bruteforce.Index
}

func NewLocalGateway(embedder TextEmbedder) *LocalGateway {
	return &LocalGateway{
		embedder: embedder,
		texts:    make(map[string]string),
		index:    &bruteforce.Index{},
	}
}

func (g *LocalGateway) IndexDocument(ctx context.Context, text string) error {
	vec, err := g.embedder.Embed(ctx, text)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// A mismatched vector must not reach the index slices, or every later
	// rebuild would fail too.
	if len(g.vecs) > 0 && len(vec) != len(g.vecs[0]) {
		return fmt.Errorf("embedding dimension %d does not match index dimension %d", len(vec), len(g.vecs[0]))
	}

	id := uuid.NewString()
	g.ids = append(g.ids, id)
	g.vecs = append(g.vecs, vec)
	g.texts[id] = text
	return g.index.Build(g.ids, g.vecs)
}

func (g *LocalGateway) Search(ctx context.Context, query string, k int) ([]string, error) {
	vec, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	ids, _, err := g.index.Query(vec, k)
	if err != nil {
		return nil, err
	}
	documents := make([]string, 0, len(ids))
	for _, id := range ids {
		documents = append(documents, g.texts[id])
	}
	return documents, nil
}
