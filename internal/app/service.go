// Package service wires decomposition, scoring and persistence into the two
// allocation entrypoints the HTTP API exposes: the synchronous Coordinator
// (Allocate) and the Streaming Presenter (Stream).
package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/teamplan/alloc/internal/adapters/mq/queue"
	"github.com/teamplan/alloc/internal/adapters/taskstore"
	"github.com/teamplan/alloc/internal/domain/model"
	"github.com/teamplan/alloc/internal/domain/scoring"
	"github.com/teamplan/alloc/internal/domain/strategy"
	"github.com/teamplan/alloc/pkg/logger"
	"github.com/teamplan/alloc/pkg/metrics"
)

// ErrEmptyTask rejects requests without a task description before any
// strategy runs.
var ErrEmptyTask = errors.New("task description is required")

// ErrAllocation wraps the only hard failure path: the template strategy
// itself failing.
var ErrAllocation = errors.New("allocation failed")

// Roster provides the org snapshot a run scores against.
type Roster interface {
	Org(ctx context.Context) (model.Org, error)
}

// Jobs is the write side of the persistence queue.
type Jobs interface {
	Enqueue(ctx context.Context, j queue.Job) bool
	Len(ctx context.Context) int
}

// Counter is the read side of the task store used for stats.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Request is one allocation request. At most one of UseHierarchical and
// UseSequential should be set; UseHierarchical wins when both are.
type Request struct {
	TaskDescription string `json:"task_description"`
	TaskType        string `json:"task_type,omitempty"`
	UseHierarchical bool   `json:"use_hierarchical,omitempty"`
	UseSequential   bool   `json:"use_sequential,omitempty"`
}

// Service implements the allocation engine behind the HTTP API.
type Service struct {
	roster       Roster
	engine       *scoring.Engine
	hierarchical strategy.Strategy
	sequential   strategy.Strategy
	template     strategy.Strategy
	jobs         Jobs
	store        Counter
	now          func() time.Time
	log          logger.Logger

	runs          atomic.Int64
	tasksAssigned atomic.Int64
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithScoringEngine overrides the default scoring engine.
func WithScoringEngine(e *scoring.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithHierarchical registers the hierarchical strategy.
func WithHierarchical(st strategy.Strategy) Option {
	return func(s *Service) { s.hierarchical = st }
}

// WithSequential registers the sequential strategy.
func WithSequential(st strategy.Strategy) Option {
	return func(s *Service) { s.sequential = st }
}

// WithJobs registers the persistence queue. Without it allocations are not
// persisted.
func WithJobs(j Jobs) Option {
	return func(s *Service) { s.jobs = j }
}

// WithStore registers the task store for stats reads.
func WithStore(c Counter) Option {
	return func(s *Service) { s.store = c }
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds the service. roster and template are the only hard
// requirements; template is the strategy of last resort and must never fail.
func New(roster Roster, template strategy.Strategy, opts ...Option) *Service {
	s := &Service{
		roster:   roster,
		engine:   scoring.NewEngine(),
		template: template,
		now:      time.Now,
		log:      logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allocate is the synchronous Coordinator: it runs the full pipeline and
// returns one complete result. Strategy failures fall back internally; the
// caller sees either a result or a hard error.
func (s *Service) Allocate(ctx context.Context, req Request) (*model.AllocationResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	return s.run(ctx, req, nil)
}

// emitFunc receives pipeline events in causal order. Returning false stops
// the run.
type emitFunc func(Event) bool

// run is the pipeline shared by Allocate and Stream. emit may be nil.
func (s *Service) run(ctx context.Context, req Request, emit emitFunc) (*model.AllocationResult, error) {
	org, err := s.roster.Org(ctx)
	if err != nil {
		metrics.RecordAllocation("none", "roster_error")
		return nil, err
	}

	if emit != nil && !emit(Event{Type: EventPMNodeStart, ProductManager: org.ProductManager.Name}) {
		return nil, ctx.Err()
	}

	chain := s.chainFor(req)
	draft, strategyName, err := chain.Decompose(ctx, strategy.Request{
		TaskDescription: req.TaskDescription,
		TaskType:        req.TaskType,
	}, org)
	if err != nil {
		metrics.RecordAllocation(strategyName, "error")
		return nil, errors.Join(ErrAllocation, err)
	}

	if emit != nil && !emit(Event{
		Type:           EventPMNodeComplete,
		ProductManager: org.ProductManager.Name,
		TaskType:       draft.TaskType,
		Strategy:       strategyName,
	}) {
		return nil, ctx.Err()
	}

	result := &model.AllocationResult{
		ProductManager:  org.ProductManager,
		TaskDescription: req.TaskDescription,
		TaskType:        draft.TaskType,
		Strategy:        strategyName,
		AIGenerated:     draft.AIGenerated,
		Reasoning:       draft.Reasoning,
		Steps:           draft.Steps,
		Teams:           make(map[string]model.TeamAllocation, len(draft.Teams)),
	}

	// Tie-break state: assignments made earlier in this run push a member
	// down when totals are equal.
	active := make(map[string]int)

	for _, dt := range draft.Teams {
		team, ok := org.Team(dt.Key)
		if !ok {
			continue
		}
		if emit != nil && !emit(Event{Type: EventTeamNodeStart, Team: dt.Key}) {
			return nil, ctx.Err()
		}

		alloc := model.TeamAllocation{
			TeamName:    team.Name,
			Description: team.Description,
			Reasoning:   dt.Reasoning,
			Tasks:       []model.TaskAssignment{},
		}

		if len(dt.Subtasks) == 0 {
			result.Teams[dt.Key] = alloc
			if emit != nil && !emit(Event{Type: EventTeamSkipped, Team: dt.Key}) {
				return nil, ctx.Err()
			}
			continue
		}

		for _, st := range dt.Subtasks {
			assignment := s.assign(st, team, active)
			alloc.Tasks = append(alloc.Tasks, assignment)
			if emit != nil && !emit(Event{Type: EventMemberAssigned, Team: dt.Key, Task: &assignment}) {
				return nil, ctx.Err()
			}
		}

		result.Teams[dt.Key] = alloc
		if emit != nil && !emit(Event{Type: EventTeamNodeComplete, Team: dt.Key, Allocation: &alloc}) {
			return nil, ctx.Err()
		}
	}

	s.persist(ctx, result)

	s.runs.Add(1)
	s.tasksAssigned.Add(int64(result.TaskCount()))
	metrics.RecordAllocation(strategyName, "ok")

	if emit != nil && !emit(Event{Type: EventAllocationComplete, Result: result}) {
		return nil, ctx.Err()
	}
	return result, nil
}

// assign scores every member of the owning team and picks the winner.
func (s *Service) assign(st model.Subtask, team model.Team, active map[string]int) model.TaskAssignment {
	start := time.Now()
	ranked := s.engine.Rank(st, team.Members, active)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	assignment := model.TaskAssignment{
		Title:          st.Title,
		Description:    st.Description,
		RequiredSkills: st.RequiredSkills,
		Complexity:     st.Complexity,
		EstimatedHours: st.EstimatedHours,
		AllCandidates:  scoring.Candidates(ranked),
	}
	if len(ranked) == 0 {
		return assignment
	}

	winner := ranked[0]
	score := winner.Score
	assignment.AssignedTo = &model.MemberSummary{
		ID:   winner.Member.ID,
		Name: winner.Member.Name,
		Role: winner.Member.Role,
	}
	assignment.Score = &score
	assignment.Reasoning = scoring.Explain(st, winner)
	active[winner.Member.ID]++
	metrics.RecordSubtaskAssigned()
	return assignment
}

// persist enqueues one job per assigned subtask. Failures are logged and
// never affect the result.
func (s *Service) persist(ctx context.Context, result *model.AllocationResult) {
	if s.jobs == nil {
		return
	}
	now := s.now()
	for key, alloc := range result.Teams {
		for _, task := range alloc.Tasks {
			job := taskstore.NewTask(key, task, now)
			if !s.jobs.Enqueue(ctx, job) {
				s.log.Warn(ctx, "persistence queue rejected task",
					logger.String("task_id", job.ID),
					logger.String("team", key),
				)
			}
		}
	}
}

// chainFor builds the per-request fallback chain: the preferred provider
// strategy when requested and available, always terminated by the template.
func (s *Service) chainFor(req Request) *strategy.Chain {
	switch {
	case req.UseHierarchical && s.hierarchical != nil:
		return strategy.NewChain(s.hierarchical, s.template)
	case req.UseSequential && s.sequential != nil:
		return strategy.NewChain(s.sequential, s.template)
	default:
		return strategy.NewChain(s.template)
	}
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.TaskDescription) == "" {
		return ErrEmptyTask
	}
	return nil
}

// Stats reports run counters for the stats endpoint.
type Stats struct {
	Allocations    int64 `json:"allocations"`
	TasksAssigned  int64 `json:"tasks_assigned"`
	TasksPersisted int   `json:"tasks_persisted"`
	QueueDepth     int   `json:"queue_depth"`
}

// Stats snapshots the service counters.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	st := Stats{
		Allocations:   s.runs.Load(),
		TasksAssigned: s.tasksAssigned.Load(),
	}
	if s.jobs != nil {
		st.QueueDepth = s.jobs.Len(ctx)
	}
	if s.store != nil {
		n, err := s.store.Count(ctx)
		if err != nil {
			return st, err
		}
		st.TasksPersisted = n
	}
	return st, nil
}
