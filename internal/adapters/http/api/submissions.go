package api

import (
	"net/http"
	"time"

	"github.com/tallyhq/tally/internal/domain/model"
)

// SubmissionsHandler handles score submission intake.
type SubmissionsHandler struct {
	deps Dependencies
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(deps Dependencies) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps}
}

// scoreRow is one criterion's score within a submission request.
type scoreRow struct {
	CriteriaID string  `json:"criteria_id" validate:"required"`
	Score      float64 `json:"score" validate:"gte=0"`
}

// submissionRequest mirrors the OpenAPI schema for
// POST /events/{id}/submissions.
type submissionRequest struct {
	SubmissionID     string     `json:"submission_id" validate:"required"`
	TeamID           string     `json:"team_id" validate:"required"`
	JudgeID          string     `json:"judge_id" validate:"required"`
	StartedAt        string     `json:"started_at" validate:"required"`
	SubmittedAt      string     `json:"submitted_at" validate:"required"`
	TimeSpentSeconds int        `json:"time_spent_seconds" validate:"gte=0"`
	Scores           []scoreRow `json:"scores" validate:"required,min=1,dive"`
}

// toScorecard converts the request into the queue payload, parsing
// timestamps. Both timestamps must be RFC3339.
func (req submissionRequest) toScorecard(eventID string) (model.Scorecard, error) {
	started, err := time.Parse(time.RFC3339, req.StartedAt)
	if err != nil {
		return model.Scorecard{}, err
	}
	submitted, err := time.Parse(time.RFC3339, req.SubmittedAt)
	if err != nil {
		return model.Scorecard{}, err
	}
	card := model.Scorecard{
		Submission: model.ScoreSubmission{
			ID:               req.SubmissionID,
			EventID:          eventID,
			TeamID:           req.TeamID,
			JudgeID:          req.JudgeID,
			StartedAt:        started,
			SubmittedAt:      &submitted,
			TimeSpentSeconds: req.TimeSpentSeconds,
		},
		Scores: make([]model.CriterionScore, 0, len(req.Scores)),
	}
	for _, row := range req.Scores {
		card.Scores = append(card.Scores, model.CriterionScore{
			SubmissionID: req.SubmissionID,
			CriteriaID:   row.CriteriaID,
			Score:        row.Score,
		})
	}
	return card, nil
}

// HandlePostSubmission handles POST /events/{id}/submissions requests.
//
// Intake is asynchronous: the scorecard is acknowledged once it is queued,
// and referential validation happens in the recording worker. Duplicate
// submission IDs are acknowledged without re-queuing.
func (h *SubmissionsHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_submission"
	var req submissionRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	card, err := req.toScorecard(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check, mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SubmissionID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	if ok := h.deps.EnqueueScorecard(r.Context(), card); !ok {
		// Roll back the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.SubmissionID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
