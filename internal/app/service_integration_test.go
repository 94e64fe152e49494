package service_test

import (
	"bytes"
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	service "github.com/tallyhq/tally/internal/app"
	"github.com/tallyhq/tally/internal/adapters/report"
	"github.com/tallyhq/tally/internal/domain/model"
)

func TestServiceReportIntegration(t *testing.T) {
	Convey("Given a judged event", t, func() {
		svc := startedService(t, service.WithWorkerCount(1))
		ctx := context.Background()

		ev, err := svc.CreateEvent(ctx, "Winter Hackathon")
		So(err, ShouldBeNil)

		team, err := svc.AddTeam(ctx, ev.ID, "Gamma", "Rae")
		So(err, ShouldBeNil)
		judge, err := svc.AddJudge(ctx, ev.ID, "Judge One")
		So(err, ShouldBeNil)

		c, err := svc.AddCriterion(ctx, model.RubricCriterion{
			EventID: ev.ID, Name: "Innovation", ShortName: "Innov", MaxScore: 25, DisplayOrder: 1,
		})
		So(err, ShouldBeNil)

		card := scorecardFor("s1", ev.ID, team.ID, judge.ID, []model.RubricCriterion{c}, []float64{20})
		So(svc.EnqueueScorecard(ctx, card), ShouldBeTrue)
		So(waitFor(func() bool {
			n, _ := svc.GetStats()["submissions"].(int)
			return n == 1
		}), ShouldBeTrue)

		Convey("When the report is generated", func() {
			var buf bytes.Buffer
			So(svc.Report(ctx, ev.ID, &buf), ShouldBeNil)

			f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
			So(err, ShouldBeNil)
			defer f.Close()

			Convey("Then the workbook reflects the judged results", func() {
				So(f.GetSheetList(), ShouldContain, report.SheetRankings)

				name, err := f.GetCellValue(report.SheetRankings, "B2")
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "Gamma")

				// No awards were assigned; every slot shows the sentinel.
				first, err := f.GetCellValue(report.SheetRankings, "B6")
				So(err, ShouldBeNil)
				So(first, ShouldEqual, "(Not Assigned)")
			})
		})

		Convey("When the event does not exist", func() {
			var buf bytes.Buffer
			So(svc.Report(ctx, "missing", &buf), ShouldNotBeNil)
		})
	})
}
