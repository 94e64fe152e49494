package seeder_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tallyhq/tally/internal/adapters/http/api"
	service "github.com/tallyhq/tally/internal/app"
	"github.com/tallyhq/tally/internal/seeder"
	"github.com/tallyhq/tally/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestSeederAgainstLiveService(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		So(svc.Start(context.Background()), ShouldBeNil)
		Reset(svc.Stop)

		mux := http.NewServeMux()
		api.NewServer(svc, svc, 100).Register(context.Background(), mux)
		ts := httptest.NewServer(mux)
		Reset(ts.Close)

		Convey("When seeding a small demo event", func() {
			stats, err := seeder.Run(context.Background(), &seeder.Config{
				BaseURL:   ts.URL,
				EventName: "Demo Hackathon",
				Teams:     3,
				Judges:    2,
				Workers:   2,
				Timeout:   5 * time.Second,
				Seed:      42,
			})

			Convey("Then the full roster and all scorecards land", func() {
				So(err, ShouldBeNil)
				So(stats.TeamsCreated, ShouldEqual, 3)
				So(stats.JudgesCreated, ShouldEqual, 2)
				So(stats.CriteriaCreated, ShouldEqual, 4)
				So(stats.ScorecardsSubmitted, ShouldEqual, 6)
				So(stats.ScorecardsFailed, ShouldEqual, 0)
				So(stats.LeaderboardRows, ShouldEqual, 3)
			})
		})

		Convey("When the target service is unreachable", func() {
			_, err := seeder.Run(context.Background(), &seeder.Config{
				BaseURL: "http://127.0.0.1:1",
				Teams:   1,
				Judges:  1,
				Workers: 1,
				Timeout: time.Second,
			})
			So(err, ShouldNotBeNil)
		})
	})
}
