package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/teamplan/alloc/internal/domain/model"
)

// scoreEqualityEpsilon treats totals within this distance as tied.
const scoreEqualityEpsilon = 1e-9

// Ranked pairs a member with their full score, ordered best-first.
type Ranked struct {
	Member model.TeamMember
	Score  model.Score
}

// Rank scores every member for the task and returns them sorted descending by
// total, capped at the engine's candidate limit. Ties are broken by fewer
// active assignments within the current run, then by lowest member id so runs
// are deterministic.
func (e *Engine) Rank(task model.Subtask, members []model.TeamMember, activeAssignments map[string]int) []Ranked {
	ranked := make([]Ranked, 0, len(members))
	for _, m := range members {
		ranked = append(ranked, Ranked{Member: m, Score: e.Score(task, m)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if math.Abs(a.Score.Total-b.Score.Total) > scoreEqualityEpsilon {
			return a.Score.Total > b.Score.Total
		}
		if activeAssignments[a.Member.ID] != activeAssignments[b.Member.ID] {
			return activeAssignments[a.Member.ID] < activeAssignments[b.Member.ID]
		}
		return a.Member.ID < b.Member.ID
	})
	if len(ranked) > e.candidateCap {
		ranked = ranked[:e.candidateCap]
	}
	return ranked
}

// Candidates converts a ranking into the explainability list embedded in
// results.
func Candidates(ranked []Ranked) []model.CandidateScore {
	out := make([]model.CandidateScore, len(ranked))
	for i, r := range ranked {
		out[i] = model.CandidateScore{
			MemberID:   r.Member.ID,
			MemberName: r.Member.Name,
			TotalScore: r.Score.Total,
			Breakdown:  r.Score.Breakdown,
		}
	}
	return out
}

// Explain produces human-readable reasons for why the winner was picked.
func Explain(task model.Subtask, winner Ranked) []string {
	b := winner.Score.Breakdown
	reasons := []string{
		fmt.Sprintf("%s covers %.0f%% of the required skills", winner.Member.Name, b.SkillMatch*100),
		fmt.Sprintf("availability score %.2f", b.Availability),
		fmt.Sprintf("past performance %.2f", b.PastPerformance),
	}
	if b.ExpertiseDepth > 0 {
		reasons = append(reasons, fmt.Sprintf("deepest relevant expertise %.2f", b.ExpertiseDepth))
	}
	if len(task.RequiredSkills) == 0 {
		reasons = append(reasons, "task has no explicit skill requirements")
	}
	return reasons
}
