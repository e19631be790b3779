package strategy

import (
	"context"

	"github.com/teamplan/alloc/internal/domain/catalog"
	"github.com/teamplan/alloc/internal/domain/model"
)

// TemplateStrategy decomposes deterministically from the task-type catalog.
// It never calls an external service and never fails, which makes it the
// strategy of last resort.
type TemplateStrategy struct {
	catalog *catalog.Catalog
}

// NewTemplate creates the catalog-driven strategy.
func NewTemplate(c *catalog.Catalog) *TemplateStrategy {
	return &TemplateStrategy{catalog: c}
}

// Name implements Strategy.
func (s *TemplateStrategy) Name() string { return "template" }

// Decompose resolves the task type in the catalog and lays the template over
// the org: every org team is referenced, teams without template entries get
// an empty subtask list.
func (s *TemplateStrategy) Decompose(_ context.Context, req Request, org model.Org) (*Draft, error) {
	tpl, resolved := s.catalog.Lookup(req.TaskType)

	teams := make([]DraftTeam, 0, len(org.Teams))
	for _, t := range org.Teams {
		teams = append(teams, DraftTeam{
			Key:      t.Key,
			Subtasks: tpl[t.Key],
		})
	}

	return &Draft{
		TaskType:    resolved,
		AIGenerated: false,
		Teams:       teams,
	}, nil
}
