package directory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/teamplan/alloc/internal/domain/model"
)

func TestDirectoryCache(t *testing.T) {
	Convey("Given a directory over a counting source", t, func() {
		loads := 0
		src := SourceFunc(func(context.Context) (model.Org, error) {
			loads++
			return seedOrg(), nil
		})
		clock := time.Now()
		d := New(src,
			WithTTL(time.Minute),
			WithClock(func() time.Time { return clock }),
		)

		Convey("When reading within the TTL", func() {
			_, err := d.Org(context.Background())
			So(err, ShouldBeNil)
			_, err = d.Org(context.Background())
			So(err, ShouldBeNil)

			Convey("Then the source is consulted once", func() {
				So(loads, ShouldEqual, 1)
			})
		})

		Convey("When the TTL lapses", func() {
			_, err := d.Org(context.Background())
			So(err, ShouldBeNil)
			clock = clock.Add(2 * time.Minute)
			_, err = d.Org(context.Background())
			So(err, ShouldBeNil)

			Convey("Then the snapshot is reloaded", func() {
				So(loads, ShouldEqual, 2)
			})
		})

		Convey("When Refresh is called explicitly", func() {
			So(d.Refresh(context.Background()), ShouldBeNil)
			So(d.Refresh(context.Background()), ShouldBeNil)

			Convey("Then the source is consulted each time", func() {
				So(loads, ShouldEqual, 2)
			})
		})
	})

	Convey("Given a source that starts failing", t, func() {
		fail := false
		src := SourceFunc(func(context.Context) (model.Org, error) {
			if fail {
				return model.Org{}, errors.New("roster service down")
			}
			return seedOrg(), nil
		})
		clock := time.Now()
		d := New(src,
			WithTTL(time.Minute),
			WithClock(func() time.Time { return clock }),
		)

		Convey("When a refresh fails after a successful load", func() {
			_, err := d.Org(context.Background())
			So(err, ShouldBeNil)
			fail = true
			clock = clock.Add(2 * time.Minute)
			org, err := d.Org(context.Background())

			Convey("Then the stale snapshot is served", func() {
				So(err, ShouldBeNil)
				So(len(org.Teams), ShouldEqual, 3)
			})
		})

		Convey("When the very first load fails", func() {
			fail = true
			_, err := d.Org(context.Background())

			Convey("Then the error surfaces", func() {
				So(errors.Is(err, ErrLoad), ShouldBeTrue)
			})
		})
	})

	Convey("Given a source returning an invalid roster", t, func() {
		cases := map[string]model.Org{
			"no teams": {},
			"team without key": {Teams: []model.Team{{Name: "Tech"}}},
			"member without id": {Teams: []model.Team{{
				Key: "tech", Members: []model.TeamMember{{Name: "Ada"}},
			}}},
			"bad availability": {Teams: []model.Team{{
				Key: "tech", Members: []model.TeamMember{{ID: "t1", Name: "Ada", Availability: "on the moon"}},
			}}},
		}
		for name, org := range cases {
			bad := org
			Convey("Then "+name+" is rejected", func() {
				d := New(SourceFunc(func(context.Context) (model.Org, error) { return bad, nil }))
				So(errors.Is(d.Refresh(context.Background()), ErrLoad), ShouldBeTrue)
			})
		}
	})
}

func TestSeed(t *testing.T) {
	Convey("Given the built-in roster", t, func() {
		org, err := Seed().Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then it passes validation and covers all three teams", func() {
			So(validate(org), ShouldBeNil)
			So(len(org.Teams), ShouldEqual, 3)
			_, ok := org.Team("tech")
			So(ok, ShouldBeTrue)
			_, ok = org.Team("marketing")
			So(ok, ShouldBeTrue)
			_, ok = org.Team("editing")
			So(ok, ShouldBeTrue)
		})
	})
}

func TestFileSource(t *testing.T) {
	Convey("Given a roster YAML file", t, func() {
		raw := `
product_manager:
  id: pm-1
  name: Dana
  role: Product Manager
teams:
  - key: tech
    team_name: Tech
    description: builds things
    members:
      - id: t1
        name: Ada
        role: Backend Engineer
        skills: [go, sql]
        availability: Free
        free_slots_per_week: 30
        past_performance_score: 0.8
`
		path := filepath.Join(t.TempDir(), "roster.yaml")
		So(os.WriteFile(path, []byte(raw), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			org, err := FileSource(path).Load(context.Background())

			Convey("Then the org round-trips", func() {
				So(err, ShouldBeNil)
				So(org.ProductManager.Name, ShouldEqual, "Dana")
				So(len(org.Teams), ShouldEqual, 1)
				So(org.Teams[0].Members[0].Availability, ShouldEqual, model.AvailabilityFree)
				So(org.Teams[0].Members[0].PastPerformance, ShouldEqual, 0.8)
			})
		})

		Convey("When the file is missing", func() {
			_, err := FileSource(filepath.Join(t.TempDir(), "nope.yaml")).Load(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}
