package brain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"secondbrain/models"
	"secondbrain/rdx"
	"secondbrain/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("share link not found")

type LinkStore interface {
	Insert(ctx context.Context, link models.ShareLink) error
	FindByID(ctx context.Context, linkID string) (*models.ShareLink, error)
}

// ContentLister is the read side of the content service the public share
// path reuses.
type ContentLister interface {
	ListByOwner(ctx context.Context, owner string) ([]models.Content, error)
}

type Handler struct {
	Links   LinkStore
	Content ContentLister
}

func NewHandler(links LinkStore, content ContentLister) *Handler {
	return &Handler{Links: links, Content: content}
}

// CreateShareLink mints a fresh link for the caller. Repeated calls create
// new links and earlier ones keep resolving; nothing is invalidated. This
// matches the upstream service's behavior.
func (h *Handler) CreateShareLink(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner := utils.GetUserIDFromRequest(r)
	if owner == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "userId is required")
		return
	}

	link := models.ShareLink{
		LinkID:    utils.GenerateRandomString(16),
		UserID:    owner,
		CreatedAt: time.Now(),
	}
	if err := h.Links.Insert(r.Context(), link); err != nil {
		log.Printf("Failed to create share link for %s: %v", owner, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "server error")
		return
	}

	// Best-effort resolve cache; Mongo stays the source of truth.
	if err := rdx.RdxSetWithExpiry(linkKey(link.LinkID), owner, 24*time.Hour); err != nil {
		log.Printf("Failed to cache share link: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"linkId":  link.LinkID,
	})
}

// GetSharedContent resolves a share link and returns the owner's full
// content list without authentication.
func (h *Handler) GetSharedContent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	linkID := ps.ByName("sharelink")

	owner, err := h.resolveOwner(r.Context(), linkID)
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "link not found")
		return
	}
	if err != nil {
		log.Printf("Failed to resolve share link %s: %v", linkID, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "server error")
		return
	}

	items, err := h.Content.ListByOwner(r.Context(), owner)
	if err != nil {
		log.Printf("Failed to list shared content for %s: %v", owner, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"content": items,
	})
}

func (h *Handler) resolveOwner(ctx context.Context, linkID string) (string, error) {
	if owner, err := rdx.RdxGet(linkKey(linkID)); err == nil && owner != "" {
		return owner, nil
	}

	link, err := h.Links.FindByID(ctx, linkID)
	if err != nil {
		return "", err
	}
	return link.UserID, nil
}

func linkKey(linkID string) string {
	return fmt.Sprintf("links:%s", linkID)
}

// MongoLinkStore implements LinkStore on the links collection.
type MongoLinkStore struct {
	Coll *mongo.Collection
}

func (s *MongoLinkStore) Insert(ctx context.Context, link models.ShareLink) error {
	_, err := s.Coll.InsertOne(ctx, link)
	return err
}

func (s *MongoLinkStore) FindByID(ctx context.Context, linkID string) (*models.ShareLink, error) {
	var link models.ShareLink
	err := s.Coll.FindOne(ctx, bson.M{"linkid": linkID}).Decode(&link)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}
