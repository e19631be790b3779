package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/teamplan/alloc/internal/adapters/provider"
	"github.com/teamplan/alloc/internal/domain/model"
	"github.com/teamplan/alloc/pkg/logger"
)

// SequentialStrategy decomposes with one provider call per hierarchy node:
// the PM plan, then a per-team outline, then a refinement call per subtask
// that fills in skills and estimates. Slower and chattier than the
// hierarchical strategy but each call carries a smaller, easier prompt.
type SequentialStrategy struct {
	gen provider.Generator
	log logger.Logger
}

// NewSequential builds the sequential strategy over gen.
func NewSequential(gen provider.Generator) *SequentialStrategy {
	return &SequentialStrategy{
		gen: gen,
		log: logger.Named("strategy.sequential"),
	}
}

func (s *SequentialStrategy) Name() string { return "sequential" }

// Decompose walks the hierarchy node by node. Any provider or validation
// failure aborts the whole strategy; drafts are never partial.
func (s *SequentialStrategy) Decompose(ctx context.Context, req Request, org model.Org) (*Draft, error) {
	plan, steps, err := runPMCall(ctx, s.gen, req, org)
	if err != nil {
		return nil, err
	}

	draft := &Draft{
		TaskType:    normalizeTaskType(plan.TaskType, req.TaskType),
		AIGenerated: true,
		Reasoning:   plan.Reasoning,
		Steps:       steps,
		Teams:       make([]DraftTeam, 0, len(plan.Teams)),
	}
	for _, pt := range plan.Teams {
		key := strings.ToLower(strings.TrimSpace(pt.Team))
		team, _ := org.Team(key)
		subtasks, teamSteps, err := s.planTeam(ctx, req, team)
		if err != nil {
			return nil, err
		}
		draft.Steps = append(draft.Steps, teamSteps...)
		draft.Teams = append(draft.Teams, DraftTeam{
			Key:       key,
			Reasoning: pt.Reasoning,
			Subtasks:  subtasks,
		})
	}
	s.log.Debug(ctx, "sequential draft complete",
		logger.Int("teams", len(draft.Teams)),
		logger.Int("steps", len(draft.Steps)),
	)
	return draft, nil
}

// planTeam outlines one team's subtasks and refines each in its own call.
func (s *SequentialStrategy) planTeam(ctx context.Context, req Request, team model.Team) ([]model.Subtask, []model.LLMStep, error) {
	raw, err := s.gen.Generate(ctx, buildTeamPrompt(req, team, false))
	if err != nil {
		return nil, nil, fmt.Errorf("team call for %q: %w", team.Key, err)
	}
	subtasks, err := decodeSubtasks(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("team call for %q: %w", team.Key, err)
	}
	steps := []model.LLMStep{{
		Step:     "team:" + team.Key,
		Success:  true,
		Thinking: fmt.Sprintf("outlined %d subtasks for %s", len(subtasks), team.Key),
	}}

	for i := range subtasks {
		detail, err := s.refine(ctx, req, team.Key, subtasks[i])
		if err != nil {
			return nil, nil, err
		}
		subtasks[i].RequiredSkills = detail.RequiredSkills
		subtasks[i].EstimatedHours = detail.EstimatedHours
		cx, _ := parseComplexity(detail.Complexity)
		subtasks[i].Complexity = cx
		normalizeEstimates(&subtasks[i])
		steps = append(steps, model.LLMStep{
			Step:     fmt.Sprintf("task:%s/%s", team.Key, subtasks[i].Title),
			Success:  true,
			Thinking: fmt.Sprintf("refined with %d required skills, %dh", len(detail.RequiredSkills), subtasks[i].EstimatedHours),
		})
	}
	return subtasks, steps, nil
}

func (s *SequentialStrategy) refine(ctx context.Context, req Request, teamKey string, st model.Subtask) (taskDetail, error) {
	raw, err := s.gen.Generate(ctx, buildTaskPrompt(req, teamKey, st))
	if err != nil {
		return taskDetail{}, fmt.Errorf("task call for %q: %w", st.Title, err)
	}
	detail, err := decodeTaskDetail(raw)
	if err != nil {
		return taskDetail{}, fmt.Errorf("task call for %q: %w", st.Title, err)
	}
	return detail, nil
}
