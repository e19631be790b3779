package model

// Complexity tiers a subtask by effort.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Priority classes a persisted task for the downstream task store.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Subtask is one unit of work produced by decomposition, before scoring.
type Subtask struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	RequiredSkills []string   `json:"required_skills"`
	Complexity     Complexity `json:"complexity"`
	EstimatedHours int        `json:"estimated_hours"`
}

// ScoreBreakdown holds the per-criterion fitness of a (task, member) pair.
// All five fields are always present and lie in [0,1].
type ScoreBreakdown struct {
	SkillMatch      float64 `json:"skill_match"`
	Experience      float64 `json:"experience"`
	Availability    float64 `json:"availability"`
	PastPerformance float64 `json:"past_performance"`
	ExpertiseDepth  float64 `json:"expertise_depth"`
}

// Weights assigns a relative importance to each criterion. A valid set sums
// to 1.0.
type Weights struct {
	SkillMatch      float64 `json:"skill_match"`
	Experience      float64 `json:"experience"`
	Availability    float64 `json:"availability"`
	PastPerformance float64 `json:"past_performance"`
	ExpertiseDepth  float64 `json:"expertise_depth"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.SkillMatch + w.Experience + w.Availability + w.PastPerformance + w.ExpertiseDepth
}

// DefaultWeights returns the standard weighting scheme.
func DefaultWeights() Weights {
	return Weights{
		SkillMatch:      0.4,
		Experience:      0.2,
		Availability:    0.2,
		PastPerformance: 0.1,
		ExpertiseDepth:  0.1,
	}
}

// Score is the weighted aggregate fitness of a (task, member) pair.
// Total equals the dot product of Breakdown and Weights.
type Score struct {
	Total     float64        `json:"total"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Weights   Weights        `json:"weights"`
}

// CandidateScore is one ranked alternative, retained for explainability.
type CandidateScore struct {
	MemberID   string         `json:"member_id"`
	MemberName string         `json:"member_name"`
	TotalScore float64        `json:"total_score"`
	Breakdown  ScoreBreakdown `json:"breakdown"`
}

// MemberSummary is the compact assignee reference embedded in results.
type MemberSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// TaskAssignment is a single subtask with its winner and the ranked
// alternatives behind the decision.
type TaskAssignment struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	RequiredSkills []string         `json:"required_skills"`
	Complexity     Complexity       `json:"complexity"`
	EstimatedHours int              `json:"estimated_hours"`
	AssignedTo     *MemberSummary   `json:"assigned_to,omitempty"`
	Score          *Score           `json:"score,omitempty"`
	Reasoning      []string         `json:"reasoning,omitempty"`
	AllCandidates  []CandidateScore `json:"all_candidates"`
}

// TeamAllocation is the per-team slice of an allocation. Tasks may be empty:
// a referenced team with no applicable work is kept, not dropped.
type TeamAllocation struct {
	TeamName    string           `json:"team_name"`
	Description string           `json:"description"`
	Reasoning   string           `json:"reasoning,omitempty"`
	Tasks       []TaskAssignment `json:"tasks"`
}

// LLMStep records one decomposition provider call for traceability.
type LLMStep struct {
	Step     string `json:"step"`
	Success  bool   `json:"success"`
	Thinking string `json:"thinking,omitempty"`
}

// AllocationResult is the root output of one allocation request.
type AllocationResult struct {
	ProductManager  ProductManager            `json:"product_manager"`
	TaskDescription string                    `json:"task_description"`
	TaskType        string                    `json:"task_type"`
	Strategy        string                    `json:"strategy"`
	AIGenerated     bool                      `json:"ai_generated"`
	Reasoning       string                    `json:"reasoning,omitempty"`
	Steps           []LLMStep                 `json:"llm_steps,omitempty"`
	Teams           map[string]TeamAllocation `json:"teams"`
}

// TaskCount returns the total number of assignments across all teams.
func (r AllocationResult) TaskCount() int {
	n := 0
	for _, ta := range r.Teams {
		n += len(ta.Tasks)
	}
	return n
}
