package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeChroma(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var stored []string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/tenants/ten/databases/brainly/collections", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name        string `json:"name"`
			GetOrCreate bool   `json:"get_or_create"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.GetOrCreate)
		json.NewEncoder(w).Encode(map[string]string{"id": "coll-1"})
	})
	mux.HandleFunc("/api/v2/tenants/ten/databases/brainly/collections/coll-1/add", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			IDs       []string `json:"ids"`
			Documents []string `json:"documents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.IDs, 1)
		assert.NotEmpty(t, req.IDs[0], "ingest must generate an id")
		stored = append(stored, req.Documents...)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/v2/tenants/ten/databases/brainly/collections/coll-1/query", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			QueryTexts []string `json:"query_texts"`
			NResults   int      `json:"n_results"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 4, req.NResults)
		docs := stored
		if len(docs) > req.NResults {
			docs = docs[:req.NResults]
		}
		json.NewEncoder(w).Encode(map[string]any{"documents": [][]string{docs}})
	})

	return httptest.NewServer(mux), &stored
}

func TestChromaGatewayRoundTrip(t *testing.T) {
	srv, stored := newFakeChroma(t)
	defer srv.Close()

	gw := NewChromaGateway(srv.URL, "key", "ten", "brainly")
	ctx := context.Background()

	require.NoError(t, gw.IndexDocument(ctx, "rust ownership model"))
	require.Len(t, *stored, 1)

	docs, err := gw.Search(ctx, "memory safety", DefaultResults)
	require.NoError(t, err)
	assert.Equal(t, []string{"rust ownership model"}, docs)
}

func TestChromaGatewayCachesCollectionID(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2/tenants/ten/databases/brainly/collections", func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]string{"id": "coll-1"})
	})
	mux.HandleFunc("/api/v2/tenants/ten/databases/brainly/collections/coll-1/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	gw := NewChromaGateway(srv.URL, "", "ten", "brainly")
	require.NoError(t, gw.IndexDocument(context.Background(), "a"))
	require.NoError(t, gw.IndexDocument(context.Background(), "b"))
	assert.Equal(t, 1, calls, "collection is resolved once")
}

func TestChromaGatewaySurfacesServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := NewChromaGateway(srv.URL, "", "ten", "brainly")
	assert.Error(t, gw.IndexDocument(context.Background(), "a"))
	_, err := gw.Search(context.Background(), "q", DefaultResults)
	assert.Error(t, err)
}
