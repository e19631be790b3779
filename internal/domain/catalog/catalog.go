// Package catalog holds the static task-type templates used by the
// deterministic decomposition strategy and as the fallback of last resort.
package catalog

import (
	"strings"

	"github.com/teamplan/alloc/internal/domain/model"
)

// Team keys the catalog knows about.
const (
	TeamTech      = "tech"
	TeamMarketing = "marketing"
	TeamEditing   = "editing"
)

// DefaultTaskType is used when a request carries no recognizable task type.
const DefaultTaskType = "feature_release"

// Template maps team keys to the canonical subtasks for one task type.
type Template map[string][]model.Subtask

// Catalog is a read-only table of task-type templates. A lookup never fails:
// unknown types resolve to the default generic template.
type Catalog struct {
	templates   map[string]Template
	defaultType string
}

// Option applies a configuration option to the Catalog.
type Option func(*Catalog)

// WithTemplate registers or replaces the template for a task type.
func WithTemplate(taskType string, tpl Template) Option {
	return func(c *Catalog) {
		c.templates[strings.ToLower(taskType)] = tpl
	}
}

// WithDefaultType selects which registered type serves catalog misses.
func WithDefaultType(taskType string) Option {
	return func(c *Catalog) {
		if taskType != "" {
			c.defaultType = strings.ToLower(taskType)
		}
	}
}

// New creates a catalog seeded with the built-in templates.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		templates:   builtinTemplates(),
		defaultType: DefaultTaskType,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Types returns the registered task types.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.templates))
	for t := range c.templates {
		out = append(out, t)
	}
	return out
}

// Lookup resolves taskType to its template, falling back to the default
// template on a miss. The returned copy is safe to mutate; repeated lookups
// for the same type are structurally identical.
func (c *Catalog) Lookup(taskType string) (Template, string) {
	key := strings.ToLower(strings.TrimSpace(taskType))
	tpl, ok := c.templates[key]
	if !ok {
		key = c.defaultType
		tpl = c.templates[key]
	}
	out := make(Template, len(tpl))
	for team, subtasks := range tpl {
		copied := make([]model.Subtask, len(subtasks))
		copy(copied, subtasks)
		for i := range copied {
			if copied[i].EstimatedHours == 0 {
				copied[i].EstimatedHours = HoursForComplexity(copied[i].Complexity)
			}
			if copied[i].Complexity == "" {
				copied[i].Complexity = ComplexityForHours(copied[i].EstimatedHours)
			}
		}
		out[team] = copied
	}
	return out, key
}

func builtinTemplates() map[string]Template {
	return map[string]Template{
		"feature_release": {
			TeamTech: {
				{
					Title:          "Design technical architecture",
					Description:    "Draft the component design, data model changes and API contracts for the feature.",
					RequiredSkills: []string{"system design", "architecture"},
					Complexity:     model.ComplexityHigh,
				},
				{
					Title:          "Implement backend services",
					Description:    "Build the server-side logic, storage access and integration points.",
					RequiredSkills: []string{"go", "sql", "api design"},
					Complexity:     model.ComplexityHigh,
				},
				{
					Title:          "Implement frontend changes",
					Description:    "Build the user-facing screens and wire them to the new endpoints.",
					RequiredSkills: []string{"javascript", "react", "css"},
					Complexity:     model.ComplexityMedium,
				},
				{
					Title:          "Write automated tests",
					Description:    "Cover the new paths with unit and integration tests.",
					RequiredSkills: []string{"testing", "go"},
					Complexity:     model.ComplexityMedium,
				},
				{
					Title:          "Prepare deployment",
					Description:    "Update pipelines, infrastructure definitions and rollout plan.",
					RequiredSkills: []string{"devops", "ci/cd", "docker"},
					Complexity:     model.ComplexityLow,
				},
			},
		},
		"bug_fix": {
			TeamTech: {
				{
					Title:          "Reproduce and diagnose",
					Description:    "Reproduce the defect, isolate the root cause and document findings.",
					RequiredSkills: []string{"debugging"},
					Complexity:     model.ComplexityMedium,
				},
				{
					Title:          "Fix and add regression test",
					Description:    "Apply the fix and lock it in with a regression test.",
					RequiredSkills: []string{"go", "testing"},
					Complexity:     model.ComplexityMedium,
				},
			},
		},
		"product_launch": {
			TeamTech: {
				{
					Title:          "Harden release build",
					Description:    "Final stabilization, performance checks and release packaging.",
					RequiredSkills: []string{"devops", "performance"},
					Complexity:     model.ComplexityMedium,
				},
			},
			TeamMarketing: {
				{
					Title:          "Draft launch campaign",
					Description:    "Plan channels, audience segments and the launch message.",
					RequiredSkills: []string{"campaign planning", "copywriting"},
					Complexity:     model.ComplexityMedium,
				},
				{
					Title:          "Prepare social assets",
					Description:    "Produce creatives and schedule posts across channels.",
					RequiredSkills: []string{"design", "social media"},
					Complexity:     model.ComplexityLow,
				},
			},
			TeamEditing: {
				{
					Title:          "Review launch copy",
					Description:    "Edit announcement posts and documentation for tone and accuracy.",
					RequiredSkills: []string{"editing", "proofreading"},
					Complexity:     model.ComplexityLow,
				},
			},
		},
		"content_update": {
			TeamMarketing: {
				{
					Title:          "Refresh messaging",
					Description:    "Update positioning and outbound copy to match the change.",
					RequiredSkills: []string{"copywriting"},
					Complexity:     model.ComplexityLow,
				},
			},
			TeamEditing: {
				{
					Title:          "Revise published content",
					Description:    "Apply the update across articles and help-center pages.",
					RequiredSkills: []string{"editing"},
					Complexity:     model.ComplexityMedium,
				},
			},
		},
	}
}
