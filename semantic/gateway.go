package semantic

import (
	"context"
	"log"
	"net/http"
	"time"

	"secondbrain/utils"

	"github.com/julienschmidt/httprouter"
)

// DefaultResults is the top-k cutoff for similarity queries.
const DefaultResults = 4

// Gateway is the vector-search surface: store a document, query by text.
// Ranking and tie-breaking belong to the backing index, not to callers.
type Gateway interface {
	IndexDocument(ctx context.Context, text string) error
	Search(ctx context.Context, query string, k int) ([]string, error)
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Handler exposes the gateway over HTTP.
type Handler struct {
	Gateway Gateway
}

func NewHandler(gateway Gateway) *Handler {
	return &Handler{Gateway: gateway}
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := ps.ByName("query")
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "query is required")
		return
	}

	documents, err := h.Gateway.Search(r.Context(), query, DefaultResults)
	if err != nil {
		log.Printf("Search failed for %q: %v", query, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "server error")
		return
	}
	if documents == nil {
		documents = []string{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success":   true,
		"documents": documents,
	})
}

func (h *Handler) IndexDocument(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		Text string `json:"text"`
	}
	if err := decodeBody(r, &req); err != nil || req.Text == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "text is required")
		return
	}

	if err := h.Gateway.IndexDocument(r.Context(), req.Text); err != nil {
		log.Printf("Failed to index document: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"msg":     "Document indexed successfully",
	})
}
