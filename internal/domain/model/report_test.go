package model_test

import (
	"testing"
	"time"

	model "github.com/okian/tally/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReport(t *testing.T) {
	Convey("Given a report", t, func() {
		Convey("When extracting the account view", func() {
			r := model.Report{
				ReportID:  "r1",
				AccountID: "acct-1",
				Tier:      "vip",
				CreatedAt: "2020-01-01",
			}
			acct := r.Account()

			Convey("Then tier and creation date carry over", func() {
				So(acct.Tier, ShouldEqual, "vip")
				So(acct.CreatedAt, ShouldEqual, "2020-01-01")
			})
		})

		Convey("When resolving the reference time", func() {
			Convey("And the report pins one", func() {
				pinned := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
				r := model.Report{AsOf: pinned}

				So(r.ReferenceTime(), ShouldEqual, pinned)
			})

			Convey("And the report leaves it zero", func() {
				r := model.Report{}
				before := time.Now().UTC()
				ref := r.ReferenceTime()

				So(ref.IsZero(), ShouldBeFalse)
				So(ref, ShouldHappenOnOrAfter, before)
			})
		})
	})
}
