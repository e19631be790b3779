package strategy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/teamplan/alloc/internal/domain/catalog"
	"github.com/teamplan/alloc/internal/domain/model"
)

// ErrDecode reports that provider output failed schema validation. Callers
// treat it exactly like a provider failure: the strategy aborts and the
// chain falls back.
var ErrDecode = errors.New("provider response failed validation")

const maxSubtasksPerTeam = 6

// pmPlan is the schema of the product-manager-level provider call.
type pmPlan struct {
	TaskType  string   `json:"task_type"`
	Reasoning string   `json:"reasoning"`
	Teams     []pmTeam `json:"teams"`
}

type pmTeam struct {
	Team      string `json:"team"`
	Reasoning string `json:"reasoning"`
}

// subtaskPlan is the schema of team-level subtask entries.
type subtaskPlan struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	RequiredSkills []string `json:"required_skills,omitempty"`
	Complexity     string   `json:"complexity,omitempty"`
	EstimatedHours int      `json:"estimated_hours,omitempty"`
}

// taskDetail is the schema of the per-subtask refinement call.
type taskDetail struct {
	RequiredSkills []string `json:"required_skills"`
	Complexity     string   `json:"complexity"`
	EstimatedHours int      `json:"estimated_hours"`
}

// extractJSON trims the prose providers like to wrap around payloads and
// returns the first top-level JSON value delimited by open/close.
func extractJSON(raw string, open, close byte) (string, error) {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: no %c...%c payload found in %d chars", ErrDecode, open, close, len(raw))
	}
	return raw[start : end+1], nil
}

// decodeStrict unmarshals payload into v, rejecting unknown fields and
// trailing garbage.
func decodeStrict(payload string, v any) error {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after payload", ErrDecode)
	}
	return nil
}

// decodePMPlan parses and validates the PM-level response against org.
func decodePMPlan(raw string, org model.Org) (pmPlan, error) {
	payload, err := extractJSON(raw, '{', '}')
	if err != nil {
		return pmPlan{}, err
	}
	var plan pmPlan
	if err := decodeStrict(payload, &plan); err != nil {
		return pmPlan{}, err
	}
	if len(plan.Teams) == 0 {
		return pmPlan{}, fmt.Errorf("%w: plan references no teams", ErrDecode)
	}
	seen := make(map[string]struct{}, len(plan.Teams))
	for _, t := range plan.Teams {
		key := strings.ToLower(strings.TrimSpace(t.Team))
		if _, ok := org.Team(key); !ok {
			return pmPlan{}, fmt.Errorf("%w: unknown team %q", ErrDecode, t.Team)
		}
		if _, dup := seen[key]; dup {
			return pmPlan{}, fmt.Errorf("%w: duplicate team %q", ErrDecode, t.Team)
		}
		seen[key] = struct{}{}
	}
	return plan, nil
}

// decodeSubtasks parses and validates a team-level subtask array, converting
// it to the domain shape with derived complexity and hours.
func decodeSubtasks(raw string) ([]model.Subtask, error) {
	payload, err := extractJSON(raw, '[', ']')
	if err != nil {
		return nil, err
	}
	var plans []subtaskPlan
	if err := decodeStrict(payload, &plans); err != nil {
		return nil, err
	}
	if len(plans) > maxSubtasksPerTeam {
		plans = plans[:maxSubtasksPerTeam]
	}
	out := make([]model.Subtask, 0, len(plans))
	for i, p := range plans {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("%w: subtask %d has no title", ErrDecode, i)
		}
		st := model.Subtask{
			Title:          strings.TrimSpace(p.Title),
			Description:    strings.TrimSpace(p.Description),
			RequiredSkills: p.RequiredSkills,
			EstimatedHours: p.EstimatedHours,
		}
		if st.EstimatedHours < 0 {
			return nil, fmt.Errorf("%w: subtask %q has negative hours", ErrDecode, p.Title)
		}
		cx, err := parseComplexity(p.Complexity)
		if err != nil {
			return nil, err
		}
		st.Complexity = cx
		normalizeEstimates(&st)
		out = append(out, st)
	}
	return out, nil
}

// decodeTaskDetail parses the per-subtask refinement response.
func decodeTaskDetail(raw string) (taskDetail, error) {
	payload, err := extractJSON(raw, '{', '}')
	if err != nil {
		return taskDetail{}, err
	}
	var d taskDetail
	if err := decodeStrict(payload, &d); err != nil {
		return taskDetail{}, err
	}
	if d.EstimatedHours < 0 {
		return taskDetail{}, fmt.Errorf("%w: negative hours", ErrDecode)
	}
	if _, err := parseComplexity(d.Complexity); err != nil {
		return taskDetail{}, err
	}
	return d, nil
}

func parseComplexity(s string) (model.Complexity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "low":
		return model.ComplexityLow, nil
	case "medium":
		return model.ComplexityMedium, nil
	case "high":
		return model.ComplexityHigh, nil
	default:
		return "", fmt.Errorf("%w: unknown complexity %q", ErrDecode, s)
	}
}

// normalizeEstimates fills whichever of complexity and hours is missing from
// the other, defaulting to the medium tier when both are absent.
func normalizeEstimates(st *model.Subtask) {
	switch {
	case st.EstimatedHours == 0 && st.Complexity == "":
		st.Complexity = model.ComplexityMedium
		st.EstimatedHours = catalog.HoursForComplexity(st.Complexity)
	case st.EstimatedHours == 0:
		st.EstimatedHours = catalog.HoursForComplexity(st.Complexity)
	case st.Complexity == "":
		st.Complexity = catalog.ComplexityForHours(st.EstimatedHours)
	}
}
