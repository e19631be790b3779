package directory

import (
	"context"

	"github.com/teamplan/alloc/internal/domain/catalog"
	"github.com/teamplan/alloc/internal/domain/model"
)

// Seed returns the built-in roster source used when no roster file is
// configured.
func Seed() Source {
	return SourceFunc(func(context.Context) (model.Org, error) {
		return seedOrg(), nil
	})
}

func seedOrg() model.Org {
	return model.Org{
		ProductManager: model.ProductManager{
			ID:     "pm-priya",
			Name:   "Priya",
			Role:   "Product Manager",
			Skills: []string{"roadmapping", "prioritization", "stakeholder management"},
		},
		Teams: []model.Team{
			{
				Key:         catalog.TeamTech,
				Name:        "Tech",
				Description: "Engineering team that designs, builds and operates the product",
				Members: []model.TeamMember{
					{
						ID:     "tech-aryan",
						Name:   "Aryan",
						Role:   "Solutions Architect",
						Skills: []string{"aws", "architecture", "api design"},
						Expertise: map[string]float64{
							"aws":          0.9,
							"architecture": 0.85,
							"api design":   0.7,
						},
						Availability:     model.AvailabilityPartiallyFree,
						FreeSlotsPerWeek: 16,
						PastPerformance:  0.85,
						DomainKnowledge: []string{"cloud infrastructure", "saas"},
					},
					{
						ID:     "tech-ritwik",
						Name:   "Ritwik",
						Role:   "Backend Developer",
						Skills: []string{"go", "aws", "sql", "api design"},
						Expertise: map[string]float64{
							"go":  0.8,
							"aws": 0.7,
							"sql": 0.75,
						},
						Availability:     model.AvailabilityFree,
						FreeSlotsPerWeek: 32,
						PastPerformance:  0.8,
						DomainKnowledge: []string{"saas", "payments"},
					},
					{
						ID:     "tech-mohak",
						Name:   "Mohak",
						Role:   "DevOps Engineer",
						Skills: []string{"aws", "terraform", "ci/cd", "monitoring"},
						Expertise: map[string]float64{
							"terraform":  0.85,
							"ci/cd":      0.8,
							"monitoring": 0.75,
						},
						Availability:     model.AvailabilityFree,
						FreeSlotsPerWeek: 28,
						PastPerformance:  0.75,
						DomainKnowledge: []string{"cloud infrastructure"},
					},
					{
						ID:     "tech-manu",
						Name:   "Manu",
						Role:   "Cloud Engineer",
						Skills: []string{"aws", "networking", "security"},
						Expertise: map[string]float64{
							"networking": 0.7,
							"security":   0.65,
						},
						Availability:     model.AvailabilityBusy,
						FreeSlotsPerWeek: 6,
						PastPerformance:  0.7,
						DomainKnowledge: []string{"cloud infrastructure", "compliance"},
					},
				},
			},
			{
				Key:         catalog.TeamMarketing,
				Name:        "Marketing",
				Description: "Owns campaigns, launches and audience growth",
				Members: []model.TeamMember{
					{
						ID:     "mkt-sana",
						Name:   "Sana",
						Role:   "Marketing Lead",
						Skills: []string{"campaign planning", "seo", "analytics"},
						Expertise: map[string]float64{
							"campaign planning": 0.85,
							"seo":               0.7,
						},
						Availability:     model.AvailabilityPartiallyFree,
						FreeSlotsPerWeek: 18,
						PastPerformance:  0.8,
						DomainKnowledge: []string{"b2b saas"},
					},
					{
						ID:     "mkt-kabir",
						Name:   "Kabir",
						Role:   "Content Marketer",
						Skills: []string{"copywriting", "social media", "seo"},
						Expertise: map[string]float64{
							"copywriting":  0.8,
							"social media": 0.75,
						},
						Availability:     model.AvailabilityFree,
						FreeSlotsPerWeek: 30,
						PastPerformance:  0.7,
						DomainKnowledge: []string{"consumer apps"},
					},
				},
			},
			{
				Key:         catalog.TeamEditing,
				Name:        "Editing",
				Description: "Reviews, edits and publishes all written material",
				Members: []model.TeamMember{
					{
						ID:     "edit-ishita",
						Name:   "Ishita",
						Role:   "Senior Editor",
						Skills: []string{"editing", "proofreading", "style guides"},
						Expertise: map[string]float64{
							"editing":      0.9,
							"proofreading": 0.85,
						},
						Availability:     model.AvailabilityPartiallyFree,
						FreeSlotsPerWeek: 20,
						PastPerformance:  0.9,
						DomainKnowledge: []string{"technical writing", "b2b saas"},
					},
					{
						ID:     "edit-dev",
						Name:   "Dev",
						Role:   "Copy Editor",
						Skills: []string{"proofreading", "fact checking"},
						Expertise: map[string]float64{
							"proofreading": 0.7,
						},
						Availability:     model.AvailabilityFree,
						FreeSlotsPerWeek: 34,
						PastPerformance:  0.65,
						DomainKnowledge: []string{"consumer apps"},
					},
				},
			},
		},
	}
}
