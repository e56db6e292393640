package dedupe_test

import (
	"context"
	"testing"

	"github.com/SamMorton123/velo-research/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When recording a race key for the first time", func() {
			seen := d.SeenAndRecord(ctx, "tour-de-france|2022-07-24")

			Convey("Then it is reported as new", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And when the same key arrives again", func() {
				Convey("Then it is reported as a duplicate", func() {
					So(d.SeenAndRecord(ctx, "tour-de-france|2022-07-24"), ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When a recorded key is unrecorded", func() {
			d.SeenAndRecord(ctx, "giro-d-italia|2022-05-29")
			d.Unrecord(ctx, "giro-d-italia|2022-05-29")

			Convey("Then it can be recorded again", func() {
				So(d.SeenAndRecord(ctx, "giro-d-italia|2022-05-29"), ShouldBeFalse)
			})
		})

		Convey("When distinct editions of a race are recorded", func() {
			So(d.SeenAndRecord(ctx, "paris-roubaix|2021-10-03"), ShouldBeFalse)
			So(d.SeenAndRecord(ctx, "paris-roubaix|2022-04-17"), ShouldBeFalse)

			Convey("Then both are kept", func() {
				So(d.Size(), ShouldEqual, 2)
			})
		})
	})
}
