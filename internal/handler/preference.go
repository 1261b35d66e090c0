package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ykazlou/afisha/internal/auth"
	"github.com/ykazlou/afisha/internal/service"
)

// PreferenceHandler serves the tag-preferences form: read the current
// levels, or replace them wholesale.
type PreferenceHandler struct {
	preferences *service.PreferenceService
	logger      *slog.Logger
}

func NewPreferenceHandler(preferences *service.PreferenceService, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences, logger: logger}
}

// HandleGet returns the full tag vocabulary with the caller's current
// interest level per tag.
//
// HTTP: GET /user_preferences (behind RequireUser)
func (h *PreferenceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	prefs, err := h.preferences.Preferences(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

type replacePreferencesRequest struct {
	// Levels maps tag ID to the desired interest level. Tags absent from
	// the map lose their row — this is the explicit reset path.
	Levels map[string]int `json:"levels"`
}

// HandleReplace overwrites all of the caller's interest rows.
//
// HTTP: POST /user_preferences (behind RequireUser)
func (h *PreferenceHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req replacePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if err := h.preferences.Replace(r.Context(), id.UserID, req.Levels); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
