package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tallyhq/tally/internal/domain/dedupe"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()

		Convey("When a submission id is recorded twice", func() {
			first := d.SeenAndRecord(ctx, "sub-1")
			second := d.SeenAndRecord(ctx, "sub-1")

			Convey("Then only the retry reports as seen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an id is unrecorded after backpressure", func() {
			d.SeenAndRecord(ctx, "sub-2")
			d.Unrecord(ctx, "sub-2")

			Convey("Then the retry is accepted as new", func() {
				So(d.SeenAndRecord(ctx, "sub-2"), ShouldBeFalse)
			})
		})
	})

	Convey("Given a deduper bounded to 3 entries", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		for i := 0; i < 3; i++ {
			So(d.SeenAndRecord(ctx, fmt.Sprintf("sub-%d", i)), ShouldBeFalse)
		}

		Convey("When a fourth id arrives", func() {
			So(d.SeenAndRecord(ctx, "sub-3"), ShouldBeFalse)

			Convey("Then the oldest id was evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "sub-0"), ShouldBeFalse) // forgotten, re-recorded
				So(d.SeenAndRecord(ctx, "sub-3"), ShouldBeTrue)  // still tracked
			})
		})
	})
}
