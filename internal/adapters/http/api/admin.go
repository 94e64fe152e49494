package api

import (
	"encoding/json"
	"net/http"

	"github.com/tallyhq/tally/internal/domain/model"
)

// AdminHandler handles event setup requests: events, rosters, rubric
// criteria, and award assignments.
type AdminHandler struct {
	deps Dependencies
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(deps Dependencies) *AdminHandler {
	return &AdminHandler{deps: deps}
}

// eventRequest mirrors the OpenAPI schema for POST /events.
type eventRequest struct {
	Name string `json:"name" validate:"required"`
}

type eventResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// teamRequest mirrors the OpenAPI schema for POST /events/{id}/teams.
type teamRequest struct {
	Name       string `json:"name" validate:"required"`
	MentorName string `json:"mentor_name"`
}

type teamResponse struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	Name       string `json:"name"`
	MentorName string `json:"mentor_name,omitempty"`
}

// judgeRequest mirrors the OpenAPI schema for POST /events/{id}/judges.
type judgeRequest struct {
	Name string `json:"name" validate:"required"`
}

type judgeResponse struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	Name    string `json:"name"`
}

// criterionRequest mirrors the OpenAPI schema for POST /events/{id}/criteria.
type criterionRequest struct {
	Name         string  `json:"name" validate:"required"`
	ShortName    string  `json:"short_name" validate:"required"`
	MaxScore     float64 `json:"max_score" validate:"gt=0"`
	DisplayOrder int     `json:"display_order" validate:"gte=0"`
}

type criterionResponse struct {
	ID           string  `json:"id"`
	EventID      string  `json:"event_id"`
	Name         string  `json:"name"`
	ShortName    string  `json:"short_name"`
	MaxScore     float64 `json:"max_score"`
	DisplayOrder int     `json:"display_order"`
}

// awardRequest mirrors the OpenAPI schema for PUT /events/{id}/awards/{slot}.
type awardRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

// HandleCreateEvent handles POST /events requests.
func (h *AdminHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"
	var req eventRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := h.deps.CreateEvent(r.Context(), req.Name)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, eventResponse{ID: ev.ID, Name: ev.Name})
}

// HandleListEvents handles GET /events requests.
func (h *AdminHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_events"
	events, err := h.deps.ListEvents(r.Context())
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, eventResponse{ID: ev.ID, Name: ev.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleAddTeam handles POST /events/{id}/teams requests.
func (h *AdminHandler) HandleAddTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_team"
	var req teamRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	t, err := h.deps.AddTeam(r.Context(), r.PathValue("id"), req.Name, req.MentorName)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, teamResponse{ID: t.ID, EventID: t.EventID, Name: t.Name, MentorName: t.MentorName})
}

// HandleAddJudge handles POST /events/{id}/judges requests.
func (h *AdminHandler) HandleAddJudge(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_judge"
	var req judgeRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	j, err := h.deps.AddJudge(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, judgeResponse{ID: j.ID, EventID: j.EventID, Name: j.Name})
}

// HandleAddCriterion handles POST /events/{id}/criteria requests.
func (h *AdminHandler) HandleAddCriterion(w http.ResponseWriter, r *http.Request) {
	const op = "api.add_criterion"
	var req criterionRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := h.deps.AddCriterion(r.Context(), model.RubricCriterion{
		EventID:      r.PathValue("id"),
		Name:         req.Name,
		ShortName:    req.ShortName,
		MaxScore:     req.MaxScore,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, criterionResponse{
		ID:           c.ID,
		EventID:      c.EventID,
		Name:         c.Name,
		ShortName:    c.ShortName,
		MaxScore:     c.MaxScore,
		DisplayOrder: c.DisplayOrder,
	})
}

// HandleAssignAward handles PUT /events/{id}/awards/{slot} requests.
func (h *AdminHandler) HandleAssignAward(w http.ResponseWriter, r *http.Request) {
	const op = "api.assign_award"
	slot := model.AwardSlot(r.PathValue("slot"))
	if !slot.Valid() {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	var req awardRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	a := model.Award{EventID: r.PathValue("id"), TeamID: req.TeamID, Type: slot}
	if err := h.deps.AssignAward(r.Context(), a); err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"slot":    string(slot),
		"team_id": req.TeamID,
	})
}

// decodeRequest decodes a JSON body into v and validates its struct tags.
func decodeRequest(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}
