package service

import "github.com/teamplan/alloc/internal/domain/model"

// EventType names one increment of the streaming protocol.
type EventType string

// Stream event types, in the causal order a successful run emits them.
const (
	EventPMNodeStart        EventType = "pm_node_start"
	EventPMNodeComplete     EventType = "pm_node_complete"
	EventTeamNodeStart      EventType = "team_node_start"
	EventMemberAssigned     EventType = "member_assigned"
	EventTeamNodeComplete   EventType = "team_node_complete"
	EventTeamSkipped        EventType = "team_skipped"
	EventAllocationComplete EventType = "allocation_complete"
	EventAllocationError    EventType = "allocation_error"
)

// Event is one streamed increment. The payload fields carried depend on the
// type; the full sequence of a run reconstructs the AllocationResult.
type Event struct {
	Type EventType `json:"event"`

	// pm_node_start / pm_node_complete
	ProductManager string `json:"product_manager,omitempty"`
	TaskType       string `json:"task_type,omitempty"`
	Strategy       string `json:"strategy,omitempty"`

	// team_node_* / team_skipped / member_assigned
	Team string `json:"team,omitempty"`

	// member_assigned
	Task *model.TaskAssignment `json:"task,omitempty"`

	// team_node_complete
	Allocation *model.TeamAllocation `json:"allocation,omitempty"`

	// allocation_complete
	Result *model.AllocationResult `json:"result,omitempty"`

	// allocation_error
	Error string `json:"error,omitempty"`
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Type == EventAllocationComplete || e.Type == EventAllocationError
}
