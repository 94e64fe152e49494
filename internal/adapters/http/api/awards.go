package api

import (
	"net/http"
)

// AwardsHandler handles award resolution requests.
type AwardsHandler struct {
	deps Dependencies
}

// NewAwardsHandler creates a new awards handler.
func NewAwardsHandler(deps Dependencies) *AwardsHandler {
	return &AwardsHandler{deps: deps}
}

// HandleGetAwards handles GET /events/{id}/awards requests. Every slot
// appears in the response; unassigned slots carry the explicit sentinel
// team name.
func (h *AwardsHandler) HandleGetAwards(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_awards"
	results, err := h.deps.Awards(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
