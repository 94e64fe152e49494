package leaderboard_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tallyhq/tally/internal/domain/leaderboard"
	"github.com/tallyhq/tally/internal/domain/model"
	"github.com/tallyhq/tally/internal/domain/types"
)

func TestResolveAwards(t *testing.T) {
	teams := []model.Team{
		{ID: "t1", Name: "Rocket"},
		{ID: "t2", Name: "Comet"},
	}

	Convey("Given a first place assignment and nothing else", t, func() {
		awards := []model.Award{{EventID: "ev1", TeamID: "t1", Type: model.AwardFirstPlace}}

		Convey("When resolving", func() {
			results, err := leaderboard.ResolveAwards(awards, teams)
			So(err, ShouldBeNil)

			Convey("Then every fixed slot appears in report order", func() {
				So(results, ShouldHaveLength, 7)
				So(results[0].Slot, ShouldEqual, "first_place")
				So(results[0].Label, ShouldEqual, "First Place")
				So(results[6].Slot, ShouldEqual, "best_presentation")
			})

			Convey("And assigned slots carry the team, unassigned the sentinel", func() {
				So(results[0].TeamName, ShouldEqual, "Rocket")
				So(results[0].TeamID, ShouldEqual, "t1")
				So(results[1].Label, ShouldEqual, "Second Place")
				So(results[1].TeamName, ShouldEqual, types.NotAssigned)
				So(results[1].TeamID, ShouldBeBlank)
			})
		})
	})

	Convey("Given no awards at all", t, func() {
		results, err := leaderboard.ResolveAwards(nil, teams)

		Convey("Then every slot resolves to the sentinel", func() {
			So(err, ShouldBeNil)
			for _, r := range results {
				So(r.TeamName, ShouldEqual, types.NotAssigned)
			}
		})
	})

	Convey("Given an award with an unknown slot type", t, func() {
		awards := []model.Award{{TeamID: "t1", Type: "peoples_choice"}}
		_, err := leaderboard.ResolveAwards(awards, teams)
		So(err, ShouldWrap, leaderboard.ErrUnknownAwardSlot)
	})

	Convey("Given an award referencing an unknown team", t, func() {
		awards := []model.Award{{TeamID: "nope", Type: model.AwardBestVideo}}
		_, err := leaderboard.ResolveAwards(awards, teams)
		So(err, ShouldWrap, leaderboard.ErrUnknownAwardTeam)
	})

	Convey("Given a slot assigned twice", t, func() {
		awards := []model.Award{
			{TeamID: "t1", Type: model.AwardThirdPlace},
			{TeamID: "t2", Type: model.AwardThirdPlace},
		}
		_, err := leaderboard.ResolveAwards(awards, teams)
		So(err, ShouldWrap, leaderboard.ErrDuplicateAward)
	})
}
