package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/i474232898/weather-history-aggregation/internal/climate"
	"github.com/i474232898/weather-history-aggregation/internal/store"
)

func report(id, place string, at time.Time) climate.SummaryReport {
	return climate.SummaryReport{
		ID:          id,
		Place:       place,
		Day:         climate.MonthDay{Month: 7, Day: 4},
		Years:       climate.YearRange{Start: 2014, End: 2023},
		GeneratedAt: at,
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	convey.Convey("Given an empty memory store", t, func() {
		s := store.NewMemoryStore(0, 0)

		convey.Convey("Lookups report ErrNotFound", func() {
			_, err := s.LatestReport(ctx, "Paris")
			convey.So(errors.Is(err, store.ErrNotFound), convey.ShouldBeTrue)

			_, err = s.Reports(ctx, "Paris", now.Add(-time.Hour), now)
			convey.So(errors.Is(err, store.ErrNotFound), convey.ShouldBeTrue)
		})

		convey.Convey("When reports are saved", func() {
			convey.So(s.SaveReport(ctx, report("a", "Paris", now.Add(-2*time.Hour))), convey.ShouldBeNil)
			convey.So(s.SaveReport(ctx, report("b", "paris ", now.Add(-time.Hour))), convey.ShouldBeNil)
			convey.So(s.SaveReport(ctx, report("c", "Berlin", now)), convey.ShouldBeNil)

			convey.Convey("The latest report is returned regardless of case", func() {
				r, err := s.LatestReport(ctx, "PARIS")
				convey.So(err, convey.ShouldBeNil)
				convey.So(r.ID, convey.ShouldEqual, "b")
			})

			convey.Convey("Range queries are inclusive and ordered", func() {
				rs, err := s.Reports(ctx, "Paris", now.Add(-2*time.Hour), now.Add(-time.Hour))
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(rs), convey.ShouldEqual, 2)
				convey.So(rs[0].ID, convey.ShouldEqual, "a")
				convey.So(rs[1].ID, convey.ShouldEqual, "b")
			})

			convey.Convey("An empty range reports ErrNotFound", func() {
				_, err := s.Reports(ctx, "Paris", now.Add(time.Hour), now.Add(2*time.Hour))
				convey.So(errors.Is(err, store.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMemoryStoreRetention(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	convey.Convey("Given a store keeping two reports per place", t, func() {
		s := store.NewMemoryStore(2, 0)
		for i, id := range []string{"a", "b", "c"} {
			_ = s.SaveReport(ctx, report(id, "Oslo", now.Add(time.Duration(i)*time.Minute)))
		}

		convey.Convey("Only the newest two are kept", func() {
			rs, err := s.Reports(ctx, "Oslo", now.Add(-time.Hour), now.Add(time.Hour))
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(rs), convey.ShouldEqual, 2)
			convey.So(rs[0].ID, convey.ShouldEqual, "b")
		})
	})

	convey.Convey("Given a store keeping reports for one hour", t, func() {
		s := store.NewMemoryStore(0, time.Hour)
		_ = s.SaveReport(ctx, report("old", "Oslo", now.Add(-3*time.Hour)))
		_ = s.SaveReport(ctx, report("new", "Oslo", now))

		convey.Convey("Expired reports are pruned on save", func() {
			rs, err := s.Reports(ctx, "Oslo", now.Add(-24*time.Hour), now.Add(time.Hour))
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(rs), convey.ShouldEqual, 1)
			convey.So(rs[0].ID, convey.ShouldEqual, "new")
		})
	})
}

func TestKey(t *testing.T) {
	if store.Key("  New York,US ") != "new york,us" {
		t.Errorf("Key() = %q", store.Key("  New York,US "))
	}
}
