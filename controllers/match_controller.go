package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"amora_server/apperrors"
	"amora_server/middleware"
	"amora_server/services"
	"amora_server/socket"
)

const defaultCandidateLimit = 20

// MatchController handles the swipe surface: browsing, liking, passing, and
// unmatching. The engine decides what happened; this layer notifies whoever
// is listening through the presence hub.
type MatchController struct {
	Engine *services.MatchService
	Hub    *socket.Hub
}

func NewMatchController(engine *services.MatchService, hub *socket.Hub) *MatchController {
	return &MatchController{Engine: engine, Hub: hub}
}

// HandleGetCandidates returns browsable profiles, excluding everyone the
// caller already swiped on or matched with.
func (c *MatchController) HandleGetCandidates(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultCandidateLimit
	}

	profiles, err := c.Engine.ListCandidates(r.Context(), userID, limit)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"profiles": profiles})
}

// HandleLike records a right swipe and reports whether it formed a match.
func (c *MatchController) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	var req struct {
		ProfileID string `json:"profileId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := c.Engine.RecordLike(r.Context(), userID, req.ProfileID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	message := "Profile liked"
	if result.IsMatch {
		message = "It's a match!"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": message,
		"isMatch": result.IsMatch,
		"match":   result,
	})
}

// HandlePass records a left swipe.
func (c *MatchController) HandlePass(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	var req struct {
		ProfileID string `json:"profileId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := c.Engine.RecordPass(r.Context(), userID, req.ProfileID); err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile passed"})
}

// HandleGetMatches returns public fields of the caller's active matches.
func (c *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	matches, err := c.Engine.ListMatches(r.Context(), userID)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// HandleUnmatch severs a match, cascades the conversation cleanup, and
// notifies the removed counterpart when they are online.
func (c *MatchController) HandleUnmatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	counterpartID := mux.Vars(r)["userId"]

	if err := c.Engine.Unmatch(r.Context(), userID, counterpartID); err != nil {
		apperrors.Write(w, err)
		return
	}

	c.Hub.EmitTo(counterpartID, socket.EventUserUnmatched, map[string]string{
		"userId":  userID,
		"message": "You have been unmatched",
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Unmatched successfully"})
}
