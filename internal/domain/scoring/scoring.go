// Package scoring computes weighted multi-criteria fitness of (task, member)
// pairs and ranks candidates for assignment.
package scoring

import (
	"math"
	"strings"

	"github.com/teamplan/alloc/internal/domain/model"
)

// Scoring constants.
const (
	// neutralDefault substitutes for a criterion the member has no data for.
	neutralDefault = 0.5
	// defaultCapacitySlots is the free-slot ceiling for availability scaling.
	defaultCapacitySlots = 40
	// defaultCandidateCap bounds the ranked alternatives kept per subtask.
	defaultCandidateCap = 10
	// weightSumTolerance is the allowed drift from 1.0 for a weight override.
	weightSumTolerance = 1e-6
)

// Categorical availability mapping used when free-slot data is absent.
var availabilityScore = map[model.Availability]float64{
	model.AvailabilityFree:          1.0,
	model.AvailabilityPartiallyFree: 0.6,
	model.AvailabilityBusy:          0.2,
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights overrides the default criterion weights. Overrides that do not
// sum to 1.0 are ignored.
func WithWeights(w model.Weights) Option {
	return func(e *Engine) {
		if math.Abs(w.Sum()-1.0) <= weightSumTolerance {
			e.weights = w
		}
	}
}

// WithCandidateCap bounds the number of ranked candidates retained.
func WithCandidateCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.candidateCap = n
		}
	}
}

// WithCapacitySlots sets the weekly free-slot ceiling for availability scaling.
func WithCapacitySlots(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.capacitySlots = n
		}
	}
}

// Engine scores and ranks candidates. The Score method is pure and total:
// missing member data maps to documented neutral defaults, never an error.
type Engine struct {
	weights       model.Weights
	candidateCap  int
	capacitySlots int
}

// NewEngine creates a scoring engine with default configuration.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights:       model.DefaultWeights(),
		candidateCap:  defaultCandidateCap,
		capacitySlots: defaultCapacitySlots,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the engine's active weighting scheme.
func (e *Engine) Weights() model.Weights {
	return e.weights
}

// Score computes the weighted fitness of member for task.
func (e *Engine) Score(task model.Subtask, member model.TeamMember) model.Score {
	b := model.ScoreBreakdown{
		SkillMatch:      skillMatch(task.RequiredSkills, member.Skills),
		Experience:      experience(task.RequiredSkills, member.Expertise),
		Availability:    e.availability(member),
		PastPerformance: clamp01(member.PastPerformance),
		ExpertiseDepth:  expertiseDepth(task.RequiredSkills, member.Expertise),
	}
	return model.Score{
		Total:     e.total(b),
		Breakdown: b,
		Weights:   e.weights,
	}
}

func (e *Engine) total(b model.ScoreBreakdown) float64 {
	return b.SkillMatch*e.weights.SkillMatch +
		b.Experience*e.weights.Experience +
		b.Availability*e.weights.Availability +
		b.PastPerformance*e.weights.PastPerformance +
		b.ExpertiseDepth*e.weights.ExpertiseDepth
}

// skillMatch is the case-insensitive coverage ratio of required skills found
// in the member's skill list. No requirement cannot penalize: empty input
// scores 1.0.
func skillMatch(required, skills []string) float64 {
	if len(required) == 0 {
		return 1.0
	}
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	matched := 0
	for _, r := range required {
		if _, ok := have[strings.ToLower(strings.TrimSpace(r))]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// experience is the mean expertise depth over the required skills. Members
// without an expertise map score the neutral default; with no required skills
// the mean runs over the whole map.
func experience(required []string, expertise map[string]float64) float64 {
	if len(expertise) == 0 {
		return neutralDefault
	}
	if len(required) == 0 {
		var sum float64
		for _, v := range expertise {
			sum += clamp01(v)
		}
		return sum / float64(len(expertise))
	}
	var sum float64
	for _, r := range required {
		sum += clamp01(lookupSkill(expertise, r))
	}
	return sum / float64(len(required))
}

// expertiseDepth is the max expertise over required skills, 0 when absent.
func expertiseDepth(required []string, expertise map[string]float64) float64 {
	var depth float64
	for _, r := range required {
		if v := clamp01(lookupSkill(expertise, r)); v > depth {
			depth = v
		}
	}
	return depth
}

// availability scales free slots against the capacity ceiling, falling back
// to the categorical state and then to the neutral default.
func (e *Engine) availability(member model.TeamMember) float64 {
	if member.FreeSlotsPerWeek > 0 {
		return clamp01(float64(member.FreeSlotsPerWeek) / float64(e.capacitySlots))
	}
	if v, ok := availabilityScore[member.Availability]; ok {
		return v
	}
	return neutralDefault
}

func lookupSkill(expertise map[string]float64, skill string) float64 {
	if v, ok := expertise[skill]; ok {
		return v
	}
	// Case-insensitive fallback; expertise maps are small.
	for k, v := range expertise {
		if strings.EqualFold(k, skill) {
			return v
		}
	}
	return 0
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
