package api

import (
	"net/http"
	"strconv"

	"github.com/tallyhq/tally/pkg/metrics"
)

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /events/{id}/leaderboard requests.
//
// Optional query parameters: limit=N caps the number of rows,
// detailed=true includes the per-judge per-criterion breakdown.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"

	limit := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	detailed := r.URL.Query().Get("detailed") == "true"

	standings, err := h.deps.Leaderboard(r.Context(), r.PathValue("id"), detailed)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	if len(standings) > limit {
		standings = standings[:limit]
	}

	metrics.RecordLeaderboardRequest()
	writeJSON(w, http.StatusOK, standings)
}
