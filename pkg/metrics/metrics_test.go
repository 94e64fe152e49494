package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/tallyhq/tally/pkg/metrics"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(registry),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("judging"),
		)
		So(m, ShouldNotBeNil)

		Convey("Then all metric families register without collision", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			// Counters report no family until first increment; gauges and
			// histograms appear immediately.
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})

	Convey("Given the global manager", t, func() {
		Convey("Then the package-level recorders do not panic", func() {
			So(func() {
				metrics.RecordSubmissionProcessed()
				metrics.RecordSubmissionDuplicate()
				metrics.RecordSubmissionRejected()
				metrics.RecordAggregationLatency(1.5)
				metrics.RecordLeaderboardRequest()
				metrics.RecordReportExport()
				metrics.UpdateTotalTeams(4)
				metrics.UpdateTotalJudges(3)
				metrics.UpdateQueueSize(2)
				metrics.RecordHTTPRequest("leaderboard", "GET", "200")
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry is exposed", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
