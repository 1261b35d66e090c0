package handler

import (
	"log/slog"
	"net/http"

	"github.com/ykazlou/afisha/internal/auth"
	"github.com/ykazlou/afisha/internal/service"
)

// OrganizerHandler serves organizer profile pages and the subscription
// toggle.
type OrganizerHandler struct {
	organizers    *service.OrganizerService
	subscriptions *service.SubscriptionService
	logger        *slog.Logger
}

func NewOrganizerHandler(
	organizers *service.OrganizerService,
	subscriptions *service.SubscriptionService,
	logger *slog.Logger,
) *OrganizerHandler {
	return &OrganizerHandler{
		organizers:    organizers,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// HandleProfile returns the organizer's public page.
//
// HTTP: GET /organizer/{id} (OptionalUser — the viewer's subscription
// state is false for anonymous callers)
func (h *OrganizerHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if id, ok := auth.IdentityFromContext(r.Context()); ok {
		viewerID = id.UserID
	}

	profile, err := h.organizers.Profile(r.Context(), r.PathValue("id"), viewerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type subscribeResponse struct {
	Subscribed bool `json:"subscribed"`
}

// HandleSubscribe toggles the caller's subscription to an organizer.
//
// HTTP: POST /subscribe/{organizerID} (behind RequireUser)
func (h *OrganizerHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	subscribed, err := h.subscriptions.Toggle(r.Context(), id.UserID, r.PathValue("organizerID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, subscribeResponse{Subscribed: subscribed})
}
