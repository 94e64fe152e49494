// Package seeder populates a running service with generated demo data:
// an event, its roster and rubric, and a full set of judge scorecards.
package seeder

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"

	"github.com/tallyhq/tally/pkg/logger"
)

// rubric is the demo rubric; four criteria scored out of 25.
var rubric = []struct {
	name      string
	shortName string
}{
	{"Innovation & Creativity", "Innovation"},
	{"Technical Execution", "Technical"},
	{"Impact & Feasibility", "Impact"},
	{"Presentation & Demo", "Presentation"},
}

const criterionMaxScore = 25.0

// Run seeds the service and reports what it created.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	start := time.Now()
	log := logger.Get().Named("seeder")

	faker := gofakeit.New(cfg.Seed)
	c := newClient(cfg.BaseURL, cfg.Timeout)

	if err := checkHealth(ctx, c); err != nil {
		return nil, err
	}

	stats := &Stats{}

	eventName := cfg.EventName
	if eventName == "" {
		eventName = faker.Company() + " Hackathon"
	}
	var ev struct {
		ID string `json:"id"`
	}
	status, err := c.postJSON(ctx, http.MethodPost, "/events", map[string]string{"name": eventName}, &ev)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	if status != http.StatusCreated {
		return nil, fmt.Errorf("create event: unexpected status %d", status)
	}
	stats.EventID = ev.ID
	log.Info(ctx, "event created", logger.String("eventID", ev.ID), logger.String("name", eventName))

	teamIDs, err := seedTeams(ctx, c, faker, ev.ID, cfg.Teams)
	if err != nil {
		return nil, err
	}
	stats.TeamsCreated = len(teamIDs)

	judgeIDs, err := seedJudges(ctx, c, faker, ev.ID, cfg.Judges)
	if err != nil {
		return nil, err
	}
	stats.JudgesCreated = len(judgeIDs)

	criterionIDs, err := seedCriteria(ctx, c, ev.ID)
	if err != nil {
		return nil, err
	}
	stats.CriteriaCreated = len(criterionIDs)

	submitScorecards(ctx, c, faker, ev.ID, teamIDs, judgeIDs, criterionIDs, cfg.Workers, stats)

	// Give the recording workers a moment to drain the queue.
	time.Sleep(processingDelay)

	var standings []map[string]any
	if _, err := c.getJSON(ctx, "/events/"+ev.ID+"/leaderboard", &standings); err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}
	stats.LeaderboardRows = len(standings)
	stats.Duration = time.Since(start)

	log.Info(ctx, "seeding completed",
		logger.String("eventID", stats.EventID),
		logger.Int("teams", stats.TeamsCreated),
		logger.Int("judges", stats.JudgesCreated),
		logger.Int("criteria", stats.CriteriaCreated),
		logger.Int("scorecards", stats.ScorecardsSubmitted),
		logger.Int("duplicates", stats.ScorecardsDuplicate),
		logger.Int("failed", stats.ScorecardsFailed),
		logger.Int("leaderboardRows", stats.LeaderboardRows),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func checkHealth(ctx context.Context, c *client) error {
	status, err := c.getJSON(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("service health check: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("service health check: unexpected status %d", status)
	}
	return nil
}

func seedTeams(ctx context.Context, c *client, faker *gofakeit.Faker, eventID string, count int) ([]string, error) {
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var team struct {
			ID string `json:"id"`
		}
		body := map[string]string{
			"name":        "Team " + faker.AppName(),
			"mentor_name": faker.Name(),
		}
		status, err := c.postJSON(ctx, http.MethodPost, "/events/"+eventID+"/teams", body, &team)
		if err != nil {
			return nil, fmt.Errorf("create team %d: %w", i, err)
		}
		if status != http.StatusCreated {
			return nil, fmt.Errorf("create team %d: unexpected status %d", i, status)
		}
		ids = append(ids, team.ID)
	}
	return ids, nil
}

func seedJudges(ctx context.Context, c *client, faker *gofakeit.Faker, eventID string, count int) ([]string, error) {
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		var judge struct {
			ID string `json:"id"`
		}
		body := map[string]string{"name": faker.Name()}
		status, err := c.postJSON(ctx, http.MethodPost, "/events/"+eventID+"/judges", body, &judge)
		if err != nil {
			return nil, fmt.Errorf("create judge %d: %w", i, err)
		}
		if status != http.StatusCreated {
			return nil, fmt.Errorf("create judge %d: unexpected status %d", i, status)
		}
		ids = append(ids, judge.ID)
	}
	return ids, nil
}

func seedCriteria(ctx context.Context, c *client, eventID string) ([]string, error) {
	ids := make([]string, 0, len(rubric))
	for i, r := range rubric {
		var criterion struct {
			ID string `json:"id"`
		}
		body := map[string]any{
			"name":          r.name,
			"short_name":    r.shortName,
			"max_score":     criterionMaxScore,
			"display_order": i + 1,
		}
		status, err := c.postJSON(ctx, http.MethodPost, "/events/"+eventID+"/criteria", body, &criterion)
		if err != nil {
			return nil, fmt.Errorf("create criterion %q: %w", r.shortName, err)
		}
		if status != http.StatusCreated {
			return nil, fmt.Errorf("create criterion %q: unexpected status %d", r.shortName, status)
		}
		ids = append(ids, criterion.ID)
	}
	return ids, nil
}

// submitScorecards has every judge score every team, submitting concurrently
// through a bounded worker pool.
func submitScorecards(ctx context.Context, c *client, faker *gofakeit.Faker, eventID string, teamIDs, judgeIDs, criterionIDs []string, workers int, stats *Stats) {
	type pairing struct {
		teamID  string
		judgeID string
		// base biases a team's scores so the leaderboard has real spread
		base float64
	}

	pairings := make([]pairing, 0, len(teamIDs)*len(judgeIDs))
	for _, teamID := range teamIDs {
		base := faker.Float64Range(0.4, 0.95)
		for _, judgeID := range judgeIDs {
			pairings = append(pairings, pairing{teamID: teamID, judgeID: judgeID, base: base})
		}
	}

	var submitted, duplicate, failed int64

	work := make(chan pairing, workers*2)
	var wg sync.WaitGroup
	var mu sync.Mutex // gofakeit.Faker is not safe for concurrent use

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range work {
				mu.Lock()
				scores := make([]map[string]any, 0, len(criterionIDs))
				for _, critID := range criterionIDs {
					jitter := faker.Float64Range(-0.15, 0.1)
					value := math.Max(0, math.Min(criterionMaxScore, (p.base+jitter)*criterionMaxScore))
					scores = append(scores, map[string]any{
						"criteria_id": critID,
						"score":       math.Round(value),
					})
				}
				mu.Unlock()

				now := time.Now().UTC()
				body := map[string]any{
					"submission_id":      uuid.NewString(),
					"team_id":            p.teamID,
					"judge_id":           p.judgeID,
					"started_at":         now.Add(-7 * time.Minute).Format(time.RFC3339),
					"submitted_at":       now.Format(time.RFC3339),
					"time_spent_seconds": 420,
					"scores":             scores,
				}

				status, err := c.postJSON(ctx, http.MethodPost, "/events/"+eventID+"/submissions", body, nil)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
				case status == http.StatusAccepted:
					// counted below
				case status == http.StatusOK:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	for _, p := range pairings {
		select {
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return
		case work <- p:
			atomic.AddInt64(&submitted, 1)
		}
	}
	close(work)
	wg.Wait()

	stats.ScorecardsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ScorecardsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.ScorecardsFailed = int(atomic.LoadInt64(&failed))
}
