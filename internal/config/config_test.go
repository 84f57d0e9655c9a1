package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/tally/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it carries the documented defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 100_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*4)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.DefaultTierMultiplier, convey.ShouldEqual, 1.0)
			convey.So(cfg.LoyaltyBonusRate, convey.ShouldEqual, 0.005)
			convey.So(cfg.LoyaltyYearCap, convey.ShouldEqual, 6)
		})

		convey.Convey("Then the tier table covers vip and pro", func() {
			convey.So(cfg.TierMultipliers["vip"], convey.ShouldEqual, 1.2)
			convey.So(cfg.TierMultipliers["pro"], convey.ShouldEqual, 1.1)
			convey.So(cfg.TierMultipliers, convey.ShouldNotContainKey, "free")
		})
	})
}
