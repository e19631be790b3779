package strategy

import (
	"fmt"
	"strings"

	"github.com/teamplan/alloc/internal/domain/model"
)

// pmPrompt asks which teams carry work for the request and why.
const pmPrompt = `You are planning work for the product manager below.

Product manager: %s (%s)

Available teams:
%s

Task: %s

Decide which teams have work to do for this task. Return ONLY a JSON object
with this exact structure (no other text):
{
  "task_type": "feature_release|bug_fix|product_launch|content_update",
  "reasoning": "one short paragraph on the overall plan",
  "teams": [
    {"team": "team key from the list above", "reasoning": "why this team is involved"}
  ]
}
Skip teams that have nothing to contribute.`

// teamPrompt asks for one team's subtasks. The detail flag controls whether
// skills and estimates are expected inline (hierarchical) or filled by a
// later per-task call (sequential).
const teamPromptFull = `Plan the subtasks for one team.

Team: %s - %s
Members:
%s

Task: %s

Return ONLY a JSON array with this exact structure (no other text):
[
  {
    "title": "short subtask title",
    "description": "what exactly needs to be done",
    "required_skills": ["skill", "skill"],
    "complexity": "low|medium|high",
    "estimated_hours": 8
  }
]
Keep it to at most 6 subtasks. Use [] if the team truly has no work.`

const teamPromptOutline = `Plan the subtasks for one team.

Team: %s - %s
Members:
%s

Task: %s

Return ONLY a JSON array with this exact structure (no other text):
[
  {"title": "short subtask title", "description": "what exactly needs to be done"}
]
Keep it to at most 6 subtasks. Use [] if the team truly has no work.`

// taskPrompt refines one subtask with skills and estimates (sequential mode).
const taskPrompt = `Refine one subtask of a larger plan.

Overall task: %s
Team: %s
Subtask: %s - %s

Return ONLY a JSON object with this exact structure (no other text):
{
  "required_skills": ["skill", "skill"],
  "complexity": "low|medium|high",
  "estimated_hours": 8
}`

func buildPMPrompt(req Request, org model.Org) string {
	var teams strings.Builder
	for _, t := range org.Teams {
		fmt.Fprintf(&teams, "- %s: %s (%d members)\n", t.Key, t.Description, len(t.Members))
	}
	return fmt.Sprintf(pmPrompt, org.ProductManager.Name, org.ProductManager.Role, teams.String(), req.TaskDescription)
}

func buildTeamPrompt(req Request, team model.Team, full bool) string {
	var roster strings.Builder
	for _, m := range team.Members {
		fmt.Fprintf(&roster, "- %s, %s, skills: %s\n", m.Name, m.Role, strings.Join(m.Skills, ", "))
	}
	tpl := teamPromptOutline
	if full {
		tpl = teamPromptFull
	}
	return fmt.Sprintf(tpl, team.Key, team.Description, roster.String(), req.TaskDescription)
}

func buildTaskPrompt(req Request, teamKey string, st model.Subtask) string {
	return fmt.Sprintf(taskPrompt, req.TaskDescription, teamKey, st.Title, st.Description)
}
