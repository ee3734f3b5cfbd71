package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// ChromaGateway talks to a hosted Chroma-style vector collection. Documents
// are embedded by the service on ingest, and queries run by text; this side
// never computes a vector.
type ChromaGateway struct {
	BaseURL    string
	APIKey     string
	Tenant     string
	Database   string
	Collection string

	mu           sync.Mutex
	collectionID string
}

func NewChromaGateway(baseURL, apiKey, tenant, database string) *ChromaGateway {
	return &ChromaGateway{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Tenant:     tenant,
		Database:   database,
		Collection: "brainly",
	}
}

func (g *ChromaGateway) IndexDocument(ctx context.Context, text string) error {
	collID, err := g.getOrCreateCollection(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"ids":       []string{uuid.NewString()},
		"documents": []string{text},
	}
	return g.post(ctx, fmt.Sprintf("/collections/%s/add", collID), payload, nil)
}

func (g *ChromaGateway) Search(ctx context.Context, query string, k int) ([]string, error) {
	collID, err := g.getOrCreateCollection(ctx)
	if err != nil {
		return nil, err
	}
	payload := map[string]any{
		"query_texts": []string{query},
		"n_results":   k,
	}
	var out struct {
		Documents [][]string `json:"documents"`
	}
	if err := g.post(ctx, fmt.Sprintf("/collections/%s/query", collID), payload, &out); err != nil {
		return nil, err
	}
	if len(out.Documents) == 0 {
		return []string{}, nil
	}
	return out.Documents[0], nil
}

func (g *ChromaGateway) getOrCreateCollection(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.collectionID != "" {
		return g.collectionID, nil
	}

	payload := map[string]any{
		"name":          g.Collection,
		"get_or_create": true,
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := g.post(ctx, "/collections", payload, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("collection %q has no id", g.Collection)
	}
	g.collectionID = out.ID
	return g.collectionID, nil
}

func (g *ChromaGateway) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v2/tenants/%s/databases/%s%s", g.BaseURL, g.Tenant, g.Database, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		req.Header.Set("X-Chroma-Token", g.APIKey)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("vector store returned status %d for %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
