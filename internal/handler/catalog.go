package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ykazlou/afisha/internal/auth"
	"github.com/ykazlou/afisha/internal/service"
)

// CatalogHandler owns the organizer-curated vocabularies: tags and the
// celebrity directory.
type CatalogHandler struct {
	tags        *service.TagService
	celebrities *service.CelebrityService
	images      *ImageStore
	logger      *slog.Logger
}

func NewCatalogHandler(
	tags *service.TagService,
	celebrities *service.CelebrityService,
	images *ImageStore,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		tags:        tags,
		celebrities: celebrities,
		images:      images,
		logger:      logger,
	}
}

type createTagRequest struct {
	Name string `json:"name"`
}

// HandleCreateTag adds a tag to the vocabulary.
//
// HTTP: POST /tags (behind RequireOrganizer)
func (h *CatalogHandler) HandleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	tag, err := h.tags.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

// HandleCreateCelebrity adds a celebrity from a multipart form with an
// optional image.
//
// HTTP: POST /celebrities (behind RequireOrganizer)
func (h *CatalogHandler) HandleCreateCelebrity(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	celebrity, err := h.celebrities.Create(r.Context(), service.CreateCelebrityInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		ImageURL:    h.images.SaveFromRequest(r, "image"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, celebrity)
}

type attachCelebrityRequest struct {
	CelebrityID string `json:"celebrityId"`
	Role        string `json:"role"`
}

// HandleAttachCelebrity adds a celebrity to an event's line-up.
//
// HTTP: POST /event/{id}/celebrity (behind RequireOrganizer; the service
// additionally checks the caller owns the event)
func (h *CatalogHandler) HandleAttachCelebrity(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req attachCelebrityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.celebrities.Attach(r.Context(), r.PathValue("id"), req.CelebrityID, req.Role, id.UserID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleListCelebrities returns the celebrity directory.
//
// HTTP: GET /celebrities
func (h *CatalogHandler) HandleListCelebrities(w http.ResponseWriter, r *http.Request) {
	celebrities, err := h.celebrities.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, celebrities)
}
