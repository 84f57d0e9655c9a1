package logger_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/okian/tally/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When fetching the global logger", func() {
			l := logger.Get()

			Convey("Then it logs at every level without panicking", func() {
				ctx := context.Background()
				So(func() { l.Debug(ctx, "debug message") }, ShouldNotPanic)
				So(func() { l.Info(ctx, "info message", logger.String("k", "v")) }, ShouldNotPanic)
				So(func() { l.Warn(ctx, "warn message", logger.Int("n", 1)) }, ShouldNotPanic)
				So(func() { l.Error(ctx, "error message", logger.Error(errors.New("boom"))) }, ShouldNotPanic)
			})
		})

		Convey("When deriving a named logger", func() {
			named := logger.Named("component")

			Convey("Then it is usable independently", func() {
				So(named, ShouldNotBeNil)
				So(func() { named.Info(context.Background(), "hello") }, ShouldNotPanic)
			})
		})

		Convey("When adjusting the level by string", func() {
			Convey("Then known levels parse", func() {
				So(logger.SetLevelString("debug"), ShouldBeNil)
				So(logger.SetLevelString("info"), ShouldBeNil)
				So(logger.SetLevelString("WARN"), ShouldBeNil)
				So(logger.SetLevelString("warning"), ShouldBeNil)
				So(logger.SetLevelString("error"), ShouldBeNil)
				So(logger.SetLevelString(""), ShouldBeNil)
			})

			Convey("And unknown levels are rejected", func() {
				So(logger.SetLevelString("loud"), ShouldNotBeNil)
			})

			// Restore the default for other tests.
			logger.SetLevel(slog.LevelInfo)
		})

		Convey("When building fields", func() {
			Convey("Then constructors carry key and value", func() {
				So(logger.String("a", "b").Key, ShouldEqual, "a")
				So(logger.Int("n", 3).Value, ShouldEqual, 3)
				So(logger.Float64("f", 1.5).Value, ShouldEqual, 1.5)
				So(logger.Bool("ok", true).Value, ShouldEqual, true)
				So(logger.Any("x", []int{1}).Key, ShouldEqual, "x")
				So(logger.Error(errors.New("e")).Key, ShouldEqual, "error")
			})
		})
	})
}
