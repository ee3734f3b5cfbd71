package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"slices"
	"time"

	"secondbrain/auth"
	"secondbrain/models"
	"secondbrain/mq"
	"secondbrain/tags"
	"secondbrain/utils"

	"github.com/julienschmidt/httprouter"
)

// Service holds the content store and its collaborators. The share-link
// handlers reuse ListByOwner for the public read path.
type Service struct {
	Store Store
	Users auth.UserStore
	Tags  *tags.Registry
}

func NewService(store Store, users auth.UserStore, registry *tags.Registry) *Service {
	return &Service{Store: store, Users: users, Tags: registry}
}

type createRequest struct {
	Type  string   `json:"type"`
	Link  string   `json:"link"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func (req *createRequest) validate() string {
	if !slices.Contains(models.ContentTypes, req.Type) {
		return "type must be one of image, video, article, audio"
	}
	if req.Link == "" {
		return "link is required"
	}
	return ""
}

// Create persists a content item for owner, resolving tag titles to ids.
// The owner-existence check runs before the write so a bad owner leaves no
// orphan row behind.
func (s *Service) Create(ctx context.Context, owner string, req createRequest) (string, error) {
	exists, err := s.Users.Exists(ctx, owner)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrUnknownOwner
	}

	tagIDs, err := s.Tags.ResolveOrCreate(ctx, utils.CleanTags(req.Tags))
	if err != nil {
		return "", err
	}

	item := models.Content{
		ContentID: "c" + utils.GenerateRandomString(10),
		Type:      req.Type,
		Link:      req.Link,
		Title:     req.Title,
		TagIDs:    tagIDs,
		UserID:    owner,
		CreatedAt: time.Now(),
	}
	if err := s.Store.Insert(ctx, item); err != nil {
		return "", err
	}
	return item.ContentID, nil
}

// ListByOwner returns the owner's content with tag ids expanded to titles.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]models.Content, error) {
	items, err := s.Store.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range items {
		titles, err := s.Tags.TitlesByID(ctx, items[i].TagIDs)
		if err != nil {
			return nil, err
		}
		items[i].Tags = titles
	}
	if items == nil {
		items = []models.Content{}
	}
	return items, nil
}

func (s *Service) CreateContent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid data")
		return
	}
	if reason := req.validate(); reason != "" {
		utils.RespondWithError(w, http.StatusBadRequest, reason)
		return
	}

	owner := utils.GetUserIDFromRequest(r)
	contentID, err := s.Create(r.Context(), owner, req)
	if errors.Is(err, ErrUnknownOwner) {
		utils.RespondWithError(w, http.StatusBadRequest, "user does not exist")
		return
	}
	if err != nil {
		log.Printf("Failed to create content for %s: %v", owner, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "server error")
		return
	}

	mq.Emit(r.Context(), mq.Index{Text: indexText(req)})

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"success":   true,
		"msg":       "Content created successfully",
		"contentId": contentID,
	})
}

func (s *Service) GetContent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	owner := utils.GetUserIDFromRequest(r)
	items, err := s.ListByOwner(r.Context(), owner)
	if err != nil {
		log.Printf("Failed to list content for %s: %v", owner, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"content": items,
	})
}

// DeleteContent removes content by id for any authenticated caller. The
// delete is not scoped to the requesting owner; this mirrors the upstream
// service's behavior.
func (s *Service) DeleteContent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "content ID is required")
		return
	}

	err := s.Store.Delete(r.Context(), req.ID)
	if errors.Is(err, ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"msg":     "Deleted successfully",
	})
}

func indexText(req createRequest) string {
	if req.Title == "" {
		return req.Link
	}
	return fmt.Sprintf("%s %s", req.Title, req.Link)
}
