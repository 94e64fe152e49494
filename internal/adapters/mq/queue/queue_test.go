package queue_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tallyhq/tally/internal/adapters/mq/queue"
	"github.com/tallyhq/tally/internal/domain/model"
)

func card(id string) queue.Scorecard {
	ts := time.Date(2025, 4, 12, 16, 0, 0, 0, time.UTC)
	return queue.Scorecard{
		Submission: model.ScoreSubmission{ID: id, EventID: "ev1", TeamID: "t1", JudgeID: "j1", SubmittedAt: &ts},
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with capacity 2", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			So(q.Enqueue(ctx, card("s1")), ShouldBeTrue)
			So(q.Enqueue(ctx, card("s2")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then a third enqueue reports backpressure", func() {
				So(q.Enqueue(ctx, card("s3")), ShouldBeFalse)
			})

			Convey("Then dequeue delivers in order", func() {
				ch := q.Dequeue(ctx)
				first := <-ch
				second := <-ch
				So(first.Submission.ID, ShouldEqual, "s1")
				So(second.Submission.ID, ShouldEqual, "s2")
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, card("s1")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.IsClosed(), ShouldBeTrue)

			Convey("Then enqueue is refused but drains complete", func() {
				So(q.Enqueue(ctx, card("s2")), ShouldBeFalse)
				ch := q.Dequeue(ctx)
				got := <-ch
				So(got.Submission.ID, ShouldEqual, "s1")
				_, open := <-ch
				So(open, ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
