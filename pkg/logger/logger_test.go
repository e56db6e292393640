package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/SamMorton123/velo-research/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		var buf bytes.Buffer
		err := logger.InitWithWriter(&buf)
		So(err, ShouldBeNil)

		Convey("When logging at info level", func() {
			logger.Get().Info(context.Background(), "race processed",
				logger.String("race", "tour-de-france"),
				logger.Int("riders", 176),
			)

			Convey("Then the record carries the message and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "race processed")
				So(out, ShouldContainSubstring, "race=tour-de-france")
				So(out, ShouldContainSubstring, "riders=176")
			})
		})

		Convey("When logging at debug level with default level", func() {
			logger.Get().Debug(context.Background(), "pair skipped")

			Convey("Then the record is suppressed", func() {
				So(buf.String(), ShouldNotContainSubstring, "pair skipped")
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			logger.Get().Debug(context.Background(), "pair skipped")

			Convey("Then the record is emitted", func() {
				So(buf.String(), ShouldContainSubstring, "pair skipped")
			})
		})

		Convey("When using a named logger", func() {
			logger.Named("elo").Warn(context.Background(), "unknown class", logger.String("class", "x"))

			Convey("Then fields are grouped under the name", func() {
				So(buf.String(), ShouldContainSubstring, "elo.class=x")
			})
		})

		Convey("When parsing an invalid level", func() {
			Convey("Then an error is returned", func() {
				So(logger.SetLevelString("loud"), ShouldNotBeNil)
			})
		})
	})
}
