// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tallyhq/tally/internal/adapters/repository"
	"github.com/tallyhq/tally/internal/domain/dedupe"
	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/internal/domain/types"
)

// validate checks request payloads against their struct tags.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// CreateEvent registers a new event and assigns its ID.
	CreateEvent(ctx context.Context, name string) (model.Event, error)

	// ListEvents returns all events in creation order.
	ListEvents(ctx context.Context) ([]model.Event, error)

	// AddTeam registers a team under an event.
	AddTeam(ctx context.Context, eventID, name, mentorName string) (model.Team, error)

	// AddJudge registers a judge profile under an event.
	AddJudge(ctx context.Context, eventID, name string) (model.JudgeProfile, error)

	// AddCriterion appends a rubric criterion to an event.
	AddCriterion(ctx context.Context, c model.RubricCriterion) (model.RubricCriterion, error)

	// AssignAward sets the team holding an award slot.
	AssignAward(ctx context.Context, a model.Award) error

	// EnqueueScorecard pushes a scorecard for async recording.
	// Returns false on backpressure.
	EnqueueScorecard(ctx context.Context, card model.Scorecard) bool

	// Leaderboard computes the ranked standings for an event.
	Leaderboard(ctx context.Context, eventID string, detailed bool) ([]types.Standing, error)

	// Awards resolves every award slot for an event.
	Awards(ctx context.Context, eventID string) ([]types.AwardResult, error)

	// Report streams the event's xlsx results workbook to w.
	Report(ctx context.Context, eventID string, w io.Writer) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	adminHandler       *AdminHandler
	submissionsHandler *SubmissionsHandler
	leaderboardHandler *LeaderboardHandler
	awardsHandler      *AwardsHandler
	reportHandler      *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		adminHandler:       NewAdminHandler(deps),
		submissionsHandler: NewSubmissionsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		awardsHandler:      NewAwardsHandler(deps),
		reportHandler:      NewReportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /events", MetricsMiddleware(s.adminHandler.HandleCreateEvent, "events"))
	mux.HandleFunc("GET /events", MetricsMiddleware(s.adminHandler.HandleListEvents, "events"))
	mux.HandleFunc("POST /events/{id}/teams", MetricsMiddleware(s.adminHandler.HandleAddTeam, "teams"))
	mux.HandleFunc("POST /events/{id}/judges", MetricsMiddleware(s.adminHandler.HandleAddJudge, "judges"))
	mux.HandleFunc("POST /events/{id}/criteria", MetricsMiddleware(s.adminHandler.HandleAddCriterion, "criteria"))
	mux.HandleFunc("PUT /events/{id}/awards/{slot}", MetricsMiddleware(s.adminHandler.HandleAssignAward, "awards"))

	mux.HandleFunc("POST /events/{id}/submissions", MetricsMiddleware(s.submissionsHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("GET /events/{id}/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /events/{id}/awards", MetricsMiddleware(s.awardsHandler.HandleGetAwards, "awards"))
	mux.HandleFunc("GET /events/{id}/report", MetricsMiddleware(s.reportHandler.HandleGetReport, "report"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError translates repository errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrTeamNotFound),
		errors.Is(err, repository.ErrJudgeNotFound),
		errors.Is(err, repository.ErrCriterionNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrAlreadyScored),
		errors.Is(err, repository.ErrRubricLocked),
		errors.Is(err, repository.ErrDuplicateID):
		writeError(w, http.StatusConflict, "conflict", Wrap(op, err))
	case errors.Is(err, repository.ErrScoreOutOfRange),
		errors.Is(err, repository.ErrIncomplete):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
