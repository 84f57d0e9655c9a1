package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	queue "github.com/okian/tally/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a new in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(10))

		Convey("When enqueuing a report", func() {
			ok := q.Enqueue(context.Background(), queue.Report{ReportID: "r1", AccountID: "a1"})

			Convey("Then it is accepted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(context.Background()), ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			for i := 0; i < 10; i++ {
				So(q.Enqueue(context.Background(), queue.Report{ReportID: fmt.Sprintf("r%d", i)}), ShouldBeTrue)
			}

			Convey("Then further enqueues are rejected without blocking", func() {
				So(q.Enqueue(context.Background(), queue.Report{ReportID: "overflow"}), ShouldBeFalse)
				So(q.Len(context.Background()), ShouldEqual, 10)
			})
		})

		Convey("When dequeuing reports", func() {
			q.Enqueue(context.Background(), queue.Report{ReportID: "r1"})
			q.Enqueue(context.Background(), queue.Report{ReportID: "r2"})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			out := q.Dequeue(ctx)

			Convey("Then reports arrive in order", func() {
				first := <-out
				second := <-out
				So(first.ReportID, ShouldEqual, "r1")
				So(second.ReportID, ShouldEqual, "r2")
			})
		})

		Convey("When the queue is closed", func() {
			q.Enqueue(context.Background(), queue.Report{ReportID: "r1"})
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(context.Background(), queue.Report{ReportID: "r2"}), ShouldBeFalse)
			})

			Convey("And buffered reports still drain before the channel closes", func() {
				out := q.Dequeue(context.Background())
				r, ok := <-out
				So(ok, ShouldBeTrue)
				So(r.ReportID, ShouldEqual, "r1")

				_, ok = <-out
				So(ok, ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When the dequeue context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			out := q.Dequeue(ctx)
			cancel()

			Convey("Then the channel eventually closes", func() {
				q.Enqueue(context.Background(), queue.Report{ReportID: "r1"})
				So(q.Close(), ShouldBeNil)

				deadline := time.After(time.Second)
				for {
					select {
					case _, ok := <-out:
						if !ok {
							return
						}
					case <-deadline:
						So("timed out waiting for dequeue channel to close", ShouldBeEmpty)
						return
					}
				}
			})
		})
	})
}
