package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/teamplan/alloc/internal/adapters/provider"
	"github.com/teamplan/alloc/internal/domain/catalog"
	"github.com/teamplan/alloc/internal/domain/model"
	"github.com/teamplan/alloc/pkg/logger"
)

// HierarchicalStrategy decomposes with two provider tiers: one call for the
// product-manager plan, then one call per involved team producing that
// team's complete subtasks with skills and estimates inline.
type HierarchicalStrategy struct {
	gen provider.Generator
	log logger.Logger
}

// NewHierarchical builds the hierarchical strategy over gen.
func NewHierarchical(gen provider.Generator) *HierarchicalStrategy {
	return &HierarchicalStrategy{
		gen: gen,
		log: logger.Named("strategy.hierarchical"),
	}
}

func (s *HierarchicalStrategy) Name() string { return "hierarchical" }

// Decompose runs the PM call and the per-team calls. Any provider or
// validation failure aborts the whole strategy; drafts are never partial.
func (s *HierarchicalStrategy) Decompose(ctx context.Context, req Request, org model.Org) (*Draft, error) {
	plan, steps, err := s.planTeams(ctx, req, org)
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
		raw, err := s.gen.Generate(ctx, buildTeamPrompt(req, team, true))
		if err != nil {
			return nil, fmt.Errorf("team call for %q: %w", key, err)
		}
		subtasks, err := decodeSubtasks(raw)
		if err != nil {
			return nil, fmt.Errorf("team call for %q: %w", key, err)
		}
		draft.Steps = append(draft.Steps, model.LLMStep{
			Step:     "team:" + key,
			Success:  true,
			Thinking: fmt.Sprintf("planned %d subtasks for %s", len(subtasks), key),
		})
		draft.Teams = append(draft.Teams, DraftTeam{
			Key:       key,
			Reasoning: pt.Reasoning,
			Subtasks:  subtasks,
		})
	}
	s.log.Debug(ctx, "hierarchical draft complete",
		logger.Int("teams", len(draft.Teams)),
		logger.Int("steps", len(draft.Steps)),
	)
	return draft, nil
}

// planTeams runs and validates the PM-level call shared by both LLM
// strategies.
func (s *HierarchicalStrategy) planTeams(ctx context.Context, req Request, org model.Org) (pmPlan, []model.LLMStep, error) {
	return runPMCall(ctx, s.gen, req, org)
}

func runPMCall(ctx context.Context, gen provider.Generator, req Request, org model.Org) (pmPlan, []model.LLMStep, error) {
	raw, err := gen.Generate(ctx, buildPMPrompt(req, org))
	if err != nil {
		return pmPlan{}, nil, fmt.Errorf("pm call: %w", err)
	}
	plan, err := decodePMPlan(raw, org)
	if err != nil {
		return pmPlan{}, nil, fmt.Errorf("pm call: %w", err)
	}
	steps := []model.LLMStep{{
		Step:     "pm",
		Success:  true,
		Thinking: plan.Reasoning,
	}}
	return plan, steps, nil
}

// normalizeTaskType prefers the plan's type, then the request's, then the
// catalog default.
func normalizeTaskType(planned, requested string) string {
	if t := strings.ToLower(strings.TrimSpace(planned)); t != "" {
		return t
	}
	if t := strings.ToLower(strings.TrimSpace(requested)); t != "" {
		return t
	}
	return catalog.DefaultTaskType
}
