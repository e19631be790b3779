// Package model contains domain entities passed between layers.
package model

// Availability is a member's categorical availability state.
type Availability string

const (
	AvailabilityFree          Availability = "Free"
	AvailabilityPartiallyFree Availability = "Partially Free"
	AvailabilityBusy          Availability = "Busy"
)

// Valid returns true if the availability is a known value.
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityFree, AvailabilityPartiallyFree, AvailabilityBusy:
		return true
	default:
		return false
	}
}

// TeamMember is a candidate assignee. Members are read-only for the duration
// of one allocation run.
type TeamMember struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
	// Skills lists skill names the member claims.
	Skills []string `json:"skills" yaml:"skills"`
	// Expertise maps a skill name to a depth in [0,1].
	Expertise map[string]float64 `json:"expertise,omitempty" yaml:"expertise"`
	// Availability is the categorical state; FreeSlotsPerWeek refines it.
	Availability     Availability `json:"availability" yaml:"availability"`
	FreeSlotsPerWeek int          `json:"free_slots_per_week" yaml:"free_slots_per_week"`
	// PastPerformance is a historical score in [0,1].
	PastPerformance float64 `json:"past_performance_score" yaml:"past_performance_score"`
	// DomainKnowledge lists business domains the member has worked in.
	DomainKnowledge []string `json:"domain_knowledge,omitempty" yaml:"domain_knowledge"`
}

// Team groups members sharing a discipline. Key is the stable identifier
// ("tech", "marketing", "editing"); Name is the display name.
type Team struct {
	Key         string       `json:"key" yaml:"key"`
	Name        string       `json:"team_name" yaml:"team_name"`
	Description string       `json:"description" yaml:"description"`
	Members     []TeamMember `json:"members" yaml:"members"`
}

// ProductManager is the fixed top-of-hierarchy actor, one per run.
type ProductManager struct {
	ID     string   `json:"id" yaml:"id"`
	Name   string   `json:"name" yaml:"name"`
	Role   string   `json:"role" yaml:"role"`
	Skills []string `json:"skills" yaml:"skills"`
}

// Org is the read-only organizational snapshot an allocation run works from.
// Teams keeps catalog order; the streaming presenter walks teams in this order.
type Org struct {
	ProductManager ProductManager `json:"product_manager" yaml:"product_manager"`
	Teams          []Team         `json:"teams" yaml:"teams"`
}

// Team returns the team with the given key, or false when absent.
func (o Org) Team(key string) (Team, bool) {
	for _, t := range o.Teams {
		if t.Key == key {
			return t, true
		}
	}
	return Team{}, false
}

// MemberCount returns the number of members across all teams.
func (o Org) MemberCount() int {
	n := 0
	for _, t := range o.Teams {
		n += len(t.Members)
	}
	return n
}
