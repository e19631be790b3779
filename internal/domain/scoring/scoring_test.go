package scoring_test

import (
	"testing"

	"github.com/teamplan/alloc/internal/domain/model"
	"github.com/teamplan/alloc/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEngineScore(t *testing.T) {
	Convey("Given a scoring engine with default weights", t, func() {
		engine := scoring.NewEngine()

		member := model.TeamMember{
			ID:     "m1",
			Name:   "Asha",
			Role:   "Backend Developer",
			Skills: []string{"Go", "PostgreSQL", "Docker"},
			Expertise: map[string]float64{
				"Go":         0.9,
				"PostgreSQL": 0.6,
			},
			Availability:     model.AvailabilityFree,
			FreeSlotsPerWeek: 20,
			PastPerformance:  0.8,
		}

		Convey("When scoring a task with partially covered skills", func() {
			task := model.Subtask{
				Title:          "Build API",
				RequiredSkills: []string{"go", "Kubernetes"},
			}
			s := engine.Score(task, member)

			Convey("Then skill match should be the case-insensitive coverage ratio", func() {
				So(s.Breakdown.SkillMatch, ShouldAlmostEqual, 0.5)
			})

			Convey("And experience should average expertise over required skills", func() {
				// Go: 0.9, Kubernetes: absent -> 0. Mean = 0.45.
				So(s.Breakdown.Experience, ShouldAlmostEqual, 0.45)
			})

			Convey("And expertise depth should be the max over required skills", func() {
				So(s.Breakdown.ExpertiseDepth, ShouldAlmostEqual, 0.9)
			})

			Convey("And availability should scale free slots against the ceiling", func() {
				So(s.Breakdown.Availability, ShouldAlmostEqual, 0.5) // 20/40
			})

			Convey("And past performance should pass through verbatim", func() {
				So(s.Breakdown.PastPerformance, ShouldAlmostEqual, 0.8)
			})

			Convey("And the weights should sum to 1.0", func() {
				So(s.Weights.Sum(), ShouldAlmostEqual, 1.0)
			})

			Convey("And total should equal the dot product of breakdown and weights", func() {
				want := s.Breakdown.SkillMatch*s.Weights.SkillMatch +
					s.Breakdown.Experience*s.Weights.Experience +
					s.Breakdown.Availability*s.Weights.Availability +
					s.Breakdown.PastPerformance*s.Weights.PastPerformance +
					s.Breakdown.ExpertiseDepth*s.Weights.ExpertiseDepth
				So(s.Total, ShouldAlmostEqual, want)
				So(s.Total, ShouldBeBetweenOrEqual, 0, 1)
			})
		})

		Convey("When the task has no required skills", func() {
			s := engine.Score(model.Subtask{Title: "Write notes"}, member)

			Convey("Then skill match should default to 1.0 (no requirement cannot penalize)", func() {
				So(s.Breakdown.SkillMatch, ShouldAlmostEqual, 1.0)
			})

			Convey("And expertise depth should be 0 with nothing to be deep in", func() {
				So(s.Breakdown.ExpertiseDepth, ShouldEqual, 0)
			})
		})

		Convey("When the member has no expertise map", func() {
			bare := model.TeamMember{ID: "m2", Name: "Noor", Availability: model.AvailabilityBusy}
			s := engine.Score(model.Subtask{RequiredSkills: []string{"Go"}}, bare)

			Convey("Then experience should use the neutral default", func() {
				So(s.Breakdown.Experience, ShouldAlmostEqual, 0.5)
			})

			Convey("And categorical availability should map Busy to 0.2", func() {
				So(s.Breakdown.Availability, ShouldAlmostEqual, 0.2)
			})
		})

		Convey("When the member has no availability data at all", func() {
			blank := model.TeamMember{ID: "m3", Name: "Kai"}
			s := engine.Score(model.Subtask{}, blank)

			Convey("Then availability should use the neutral default", func() {
				So(s.Breakdown.Availability, ShouldAlmostEqual, 0.5)
			})
		})

		Convey("When free slots exceed the capacity ceiling", func() {
			eager := model.TeamMember{ID: "m4", FreeSlotsPerWeek: 80}
			s := engine.Score(model.Subtask{}, eager)

			Convey("Then availability should clamp to 1.0", func() {
				So(s.Breakdown.Availability, ShouldAlmostEqual, 1.0)
			})
		})
	})

	Convey("Given a weight override", t, func() {
		Convey("When the override sums to 1.0", func() {
			w := model.Weights{SkillMatch: 1.0}
			engine := scoring.NewEngine(scoring.WithWeights(w))

			Convey("Then the engine should adopt it", func() {
				So(engine.Weights().SkillMatch, ShouldAlmostEqual, 1.0)
				So(engine.Weights().Experience, ShouldEqual, 0)
			})
		})

		Convey("When the override does not sum to 1.0", func() {
			w := model.Weights{SkillMatch: 0.9, Experience: 0.9}
			engine := scoring.NewEngine(scoring.WithWeights(w))

			Convey("Then the defaults should stay in force", func() {
				So(engine.Weights(), ShouldResemble, model.DefaultWeights())
			})
		})
	})
}
