package scoring_test

import (
	"testing"

	"github.com/teamplan/alloc/internal/domain/model"
	"github.com/teamplan/alloc/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func member(id, name string, skills ...string) model.TeamMember {
	return model.TeamMember{
		ID:               id,
		Name:             name,
		Skills:           skills,
		Availability:     model.AvailabilityFree,
		FreeSlotsPerWeek: 40,
		PastPerformance:  0.5,
	}
}

func TestRank(t *testing.T) {
	Convey("Given a roster with distinct skill coverage", t, func() {
		engine := scoring.NewEngine()
		task := model.Subtask{Title: "OAuth login", RequiredSkills: []string{"go", "oauth"}}
		roster := []model.TeamMember{
			member("m3", "Cleo", "go"),
			member("m1", "Asha", "go", "oauth"),
			member("m2", "Bodh"),
		}

		Convey("When ranking candidates", func() {
			ranked := engine.Rank(task, roster, nil)

			Convey("Then the order should be non-increasing by total", func() {
				So(len(ranked), ShouldEqual, 3)
				for i := 1; i < len(ranked); i++ {
					So(ranked[i-1].Score.Total, ShouldBeGreaterThanOrEqualTo, ranked[i].Score.Total)
				}
			})

			Convey("And the full-coverage member should win", func() {
				So(ranked[0].Member.ID, ShouldEqual, "m1")
			})
		})
	})

	Convey("Given two identically scored candidates", t, func() {
		engine := scoring.NewEngine()
		task := model.Subtask{RequiredSkills: []string{"go"}}
		roster := []model.TeamMember{
			member("m9", "Zia", "go"),
			member("m2", "Asa", "go"),
		}

		Convey("When neither has active assignments", func() {
			ranked := engine.Rank(task, roster, map[string]int{})

			Convey("Then the lowest member id should win the tie", func() {
				So(ranked[0].Member.ID, ShouldEqual, "m2")
			})
		})

		Convey("When the lower id already carries work in this run", func() {
			ranked := engine.Rank(task, roster, map[string]int{"m2": 2})

			Convey("Then the less-loaded candidate should win", func() {
				So(ranked[0].Member.ID, ShouldEqual, "m9")
			})
		})
	})

	Convey("Given a roster larger than the candidate cap", t, func() {
		engine := scoring.NewEngine(scoring.WithCandidateCap(2))
		roster := []model.TeamMember{
			member("m1", "A"), member("m2", "B"), member("m3", "C"), member("m4", "D"),
		}

		Convey("When ranking", func() {
			ranked := engine.Rank(model.Subtask{}, roster, nil)

			Convey("Then the list should be capped", func() {
				So(len(ranked), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a ranking", t, func() {
		engine := scoring.NewEngine()
		task := model.Subtask{RequiredSkills: []string{"go"}}
		ranked := engine.Rank(task, []model.TeamMember{member("m1", "Asha", "go")}, nil)

		Convey("When converting to candidate scores", func() {
			cands := scoring.Candidates(ranked)

			Convey("Then each entry should mirror the ranked member", func() {
				So(len(cands), ShouldEqual, 1)
				So(cands[0].MemberID, ShouldEqual, "m1")
				So(cands[0].MemberName, ShouldEqual, "Asha")
				So(cands[0].TotalScore, ShouldAlmostEqual, ranked[0].Score.Total)
			})
		})

		Convey("When explaining the winner", func() {
			reasons := scoring.Explain(task, ranked[0])

			Convey("Then at least one reason should mention skill coverage", func() {
				So(len(reasons), ShouldBeGreaterThan, 0)
				So(reasons[0], ShouldContainSubstring, "required skills")
			})
		})
	})
}
