package taskstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/teamplan/alloc/internal/domain/model"
)

func TestNewTask(t *testing.T) {
	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)

	Convey("Given an assigned subtask", t, func() {
		assignment := model.TaskAssignment{
			Title:          "Build API",
			Description:    "new endpoints",
			RequiredSkills: []string{"go", "sql"},
			EstimatedHours: 24,
			AssignedTo:     &model.MemberSummary{ID: "tech-ritwik", Name: "Ritwik"},
		}

		Convey("When deriving the persistence record", func() {
			task := NewTask("tech", assignment, now)

			Convey("Then the derived fields follow the allocation rules", func() {
				So(task.ID, ShouldNotBeEmpty)
				So(task.Title, ShouldEqual, "Build API")
				So(task.RoleRequired, ShouldEqual, "backend")
				So(task.Priority, ShouldEqual, "high")
				So(task.Deadline, ShouldEqual, now.Add(7*24*time.Hour))
				So(task.EstimatedHours, ShouldEqual, 24)
				So(task.Status, ShouldEqual, "allocated")
				So(task.AllocatedTo, ShouldEqual, "tech-ritwik")
				So(task.Sprint, ShouldEqual, "2026-W35")
			})
		})

		Convey("When hours are unspecified", func() {
			assignment.EstimatedHours = 0
			task := NewTask("tech", assignment, now)

			Convey("Then the default applies and priority follows it", func() {
				So(task.EstimatedHours, ShouldEqual, 8)
				So(task.Priority, ShouldEqual, "low")
			})
		})

		Convey("When the title exceeds the limit", func() {
			long := ""
			for range 30 {
				long += "abcdefghij"
			}
			assignment.Title = long
			task := NewTask("tech", assignment, now)

			So(len(task.Title), ShouldEqual, 100)
		})

		Convey("When the subtask is unassigned", func() {
			assignment.AssignedTo = nil
			task := NewTask("tech", assignment, now)

			So(task.AllocatedTo, ShouldBeEmpty)
		})
	})

	Convey("Given the role heuristic", t, func() {
		cases := []struct {
			team   string
			skills []string
			want   string
		}{
			{"tech", []string{"terraform", "aws"}, "devops"},
			{"tech", []string{"react", "css"}, "frontend"},
			{"tech", []string{"go", "sql"}, "backend"},
			{"tech", nil, "backend"},
			{"marketing", []string{"seo"}, "marketing"},
			{"editing", nil, "editing"},
			{"legal", nil, "general"},
		}
		for _, c := range cases {
			So(roleRequired(c.team, c.skills), ShouldEqual, c.want)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		s := NewMemory()
		ctx := context.Background()
		now := time.Now()

		Convey("When saving tasks", func() {
			a := NewTask("tech", model.TaskAssignment{Title: "a"}, now)
			b := NewTask("tech", model.TaskAssignment{Title: "b"}, now)
			So(s.Save(ctx, a), ShouldBeNil)
			So(s.Save(ctx, b), ShouldBeNil)

			Convey("Then Count and List see them newest first", func() {
				n, err := s.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)

				got, err := s.List(ctx)
				So(err, ShouldBeNil)
				So(got[0].Title, ShouldEqual, "b")
				So(got[1].Title, ShouldEqual, "a")
			})
		})
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a sqlite store in a temp dir", t, func() {
		ctx := context.Background()
		s, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "tasks.db"))
		So(err, ShouldBeNil)
		defer s.Close()

		Convey("When saving and reading back", func() {
			now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
			task := NewTask("marketing", model.TaskAssignment{
				Title:          "Announce",
				Description:    "launch post",
				EstimatedHours: 4,
				AssignedTo:     &model.MemberSummary{ID: "mkt-sana"},
			}, now)
			So(s.Save(ctx, task), ShouldBeNil)

			got, err := s.List(ctx)
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)

			Convey("Then the record round-trips", func() {
				So(got[0].ID, ShouldEqual, task.ID)
				So(got[0].RoleRequired, ShouldEqual, "marketing")
				So(got[0].Priority, ShouldEqual, "low")
				So(got[0].AllocatedTo, ShouldEqual, "mkt-sana")
				So(got[0].Sprint, ShouldEqual, task.Sprint)
				So(got[0].Deadline.UTC(), ShouldEqual, task.Deadline.UTC())
			})

			Convey("Then Count matches", func() {
				n, err := s.Count(ctx)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})

		Convey("When saving a duplicate id", func() {
			task := NewTask("tech", model.TaskAssignment{Title: "x"}, time.Now())
			So(s.Save(ctx, task), ShouldBeNil)
			err := s.Save(ctx, task)

			Convey("Then the unique constraint surfaces as ErrSave", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
