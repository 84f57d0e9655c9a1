package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/tally/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given a scoreboard entry", t, func() {
		entry := types.Entry{Rank: 1, AccountID: "acct-1", Score: 116.4}

		Convey("When marshaled to JSON", func() {
			data, err := json.Marshal(entry)

			Convey("Then it uses the wire field names", func() {
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"rank":1`)
				So(string(data), ShouldContainSubstring, `"account_id":"acct-1"`)
				So(string(data), ShouldContainSubstring, `"score":116.4`)
			})
		})
	})
}
