package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ykazlou/afisha/internal/auth"
	"github.com/ykazlou/afisha/internal/model"
	"github.com/ykazlou/afisha/internal/service"
)

// recommendationLimit caps the recommendation block on the home payload.
const recommendationLimit = 5

// EventHandler serves the home listing, the map view, event detail, and
// event creation.
type EventHandler struct {
	events      *service.EventService
	reviews     *service.ReviewService
	celebrities *service.CelebrityService
	tags        *service.TagService
	images      *ImageStore
	logger      *slog.Logger
}

func NewEventHandler(
	events *service.EventService,
	reviews *service.ReviewService,
	celebrities *service.CelebrityService,
	tags *service.TagService,
	images *ImageStore,
	logger *slog.Logger,
) *EventHandler {
	return &EventHandler{
		events:      events,
		reviews:     reviews,
		celebrities: celebrities,
		tags:        tags,
		images:      images,
		logger:      logger,
	}
}

// listingResponse is the home payload: the filtered events, the tag
// vocabulary for the filter bar, and recommendations for logged-in users.
type listingResponse struct {
	Events      []model.Event `json:"events"`
	Tags        []model.Tag   `json:"tags"`
	Recommended []model.Event `json:"recommended,omitempty"`
}

// HandleListing composes the filtered event listing.
//
// HTTP: GET /?search=...&tag=...
//
// The tag filter wins over search when both are present; an unknown tag
// yields an empty list. Anonymous visitors get no recommendation block.
func (h *EventHandler) HandleListing(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	tagName := r.URL.Query().Get("tag")

	events, err := h.events.List(r.Context(), search, tagName)
	if err != nil {
		writeError(w, err)
		return
	}

	vocabulary, err := h.tags.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listingResponse{Events: events, Tags: vocabulary}

	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		recommended, err := h.events.Recommend(r.Context(), id.UserID, time.Now(), recommendationLimit)
		if err != nil {
			// Recommendations are a garnish; the listing still renders.
			h.logger.Error("failed to build recommendations",
				slog.String("user", id.UserID),
				slog.String("error", err.Error()),
			)
		} else {
			resp.Recommended = recommended
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// mapPoint is the reduced event shape the map view needs.
type mapPoint struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Category string  `json:"category,omitempty"`
}

// HandleMap returns the filtered listing reduced to placeable events.
//
// HTTP: GET /map?search=...&tag=...
func (h *EventHandler) HandleMap(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.MapPoints(r.Context(), r.URL.Query().Get("search"), r.URL.Query().Get("tag"))
	if err != nil {
		writeError(w, err)
		return
	}

	points := make([]mapPoint, 0, len(events))
	for _, e := range events {
		points = append(points, mapPoint{
			ID:       e.ID,
			Title:    e.Title,
			Lat:      *e.Lat,
			Lng:      *e.Lng,
			Category: e.Category,
		})
	}

	writeJSON(w, http.StatusOK, points)
}

// eventDetailResponse joins the event with everything its page shows.
type eventDetailResponse struct {
	Event         *model.Event           `json:"event"`
	Lineup        []model.EventCelebrity `json:"lineup"`
	AverageRating float64                `json:"averageRating"`
}

// HandleDetail returns one event with tags, line-up, and average rating.
//
// HTTP: GET /event/{id}
func (h *EventHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	lineup, err := h.celebrities.Lineup(r.Context(), event.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	avg, err := h.reviews.EventAverage(r.Context(), event.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, eventDetailResponse{
		Event:         event,
		Lineup:        lineup,
		AverageRating: avg,
	})
}

// HandleCreate publishes an event from a multipart form.
//
// HTTP: POST /events (behind RequireOrganizer)
//
// The form mirrors the publication page: text fields plus an optional
// image. A failed image save logs and proceeds without a picture.
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	in := service.CreateEventInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Format:      r.FormValue("format"),
		Location:    r.FormValue("location"),
		Category:    r.FormValue("category"),
		TagIDs:      r.Form["tag_ids"],
	}

	if startsAt := r.FormValue("starts_at"); startsAt != "" {
		t, err := time.Parse("2006-01-02T15:04", startsAt)
		if err != nil {
			http.Error(w, "Invalid starts_at, want YYYY-MM-DDTHH:MM", http.StatusBadRequest)
			return
		}
		in.StartsAt = t
	}
	if duration := r.FormValue("duration"); duration != "" {
		d, err := strconv.Atoi(duration)
		if err != nil {
			http.Error(w, "Invalid duration", http.StatusBadRequest)
			return
		}
		in.Duration = d
	}
	if latStr, lngStr := r.FormValue("lat"), r.FormValue("lng"); latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			http.Error(w, "Invalid coordinates", http.StatusBadRequest)
			return
		}
		in.Lat, in.Lng = &lat, &lng
	}

	in.ImageURL = h.images.SaveFromRequest(r, "image")

	event, err := h.events.Create(r.Context(), id.UserID, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}
