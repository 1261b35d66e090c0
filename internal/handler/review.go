package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ykazlou/afisha/internal/auth"
	"github.com/ykazlou/afisha/internal/service"
)

// reviewDateFormat renders review dates the way the pages show them.
const reviewDateFormat = "02.01.2006"

// ReviewHandler owns review submission and the review feeds for events
// and organizers.
type ReviewHandler struct {
	reviews *service.ReviewService
	logger  *slog.Logger
}

func NewReviewHandler(reviews *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// reviewResponse is one entry of a review feed. IsCurrentUser marks the
// caller's own review so the page can offer the edit form instead of a
// fresh one.
type reviewResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment,omitempty"`
	Date          string `json:"date"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// HandleSubmitEventReview records or overwrites the caller's review of an
// event.
//
// HTTP: POST /event/{id}/review (behind RequireUser)
func (h *ReviewHandler) HandleSubmitEventReview(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	review, err := h.reviews.SubmitEventReview(r.Context(), id.UserID, r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// HandleEventReviews returns the event's review feed, newest first.
//
// HTTP: GET /event/{id}/reviews (OptionalUser — anonymous callers simply
// get is_current_user=false everywhere)
func (h *ReviewHandler) HandleEventReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.EventReviews(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	viewerID := ""
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		viewerID = id.UserID
	}

	feed := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		feed = append(feed, reviewResponse{
			ID:            rv.ID,
			Username:      rv.Username,
			Rating:        rv.Rating,
			Comment:       rv.Comment,
			Date:          rv.CreatedAt.Format(reviewDateFormat),
			IsCurrentUser: viewerID != "" && rv.UserID == viewerID,
		})
	}

	writeJSON(w, http.StatusOK, feed)
}

// HandleSubmitOrganizerReview records or overwrites the caller's review
// of an organizer.
//
// HTTP: POST /organizer/{id}/review (behind RequireUser)
func (h *ReviewHandler) HandleSubmitOrganizerReview(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	review, err := h.reviews.SubmitOrganizerReview(r.Context(), id.UserID, r.PathValue("id"), req.Rating, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}
