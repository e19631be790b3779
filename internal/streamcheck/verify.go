package streamcheck

import (
	"errors"
	"fmt"
)

// Event names the verifier orders on. Kept as strings so the tool only
// depends on the wire contract, not on server internals.
const (
	evPMStart      = "pm_node_start"
	evPMComplete   = "pm_node_complete"
	evTeamStart    = "team_node_start"
	evMemberAssign = "member_assigned"
	evTeamComplete = "team_node_complete"
	evTeamSkipped  = "team_skipped"
	evComplete     = "allocation_complete"
	evError        = "allocation_error"
)

// ErrOrder reports a causal-order violation.
var ErrOrder = errors.New("causal order violated")

// VerifySequence checks one stream's event sequence against the ordering
// contract: the pm pair first, per-team events properly nested, exactly one
// terminal event and nothing after it.
func VerifySequence(events []Record) error {
	if len(events) == 0 {
		return fmt.Errorf("%w: empty stream", ErrOrder)
	}

	// An input rejection is a single-event stream.
	if events[0].Type == evError {
		if len(events) > 1 {
			return fmt.Errorf("%w: events after allocation_error", ErrOrder)
		}
		return nil
	}

	if events[0].Type != evPMStart {
		return fmt.Errorf("%w: stream starts with %s", ErrOrder, events[0].Type)
	}
	if len(events) < 2 || events[1].Type != evPMComplete {
		return fmt.Errorf("%w: pm_node_start not followed by pm_node_complete", ErrOrder)
	}

	openTeam := ""
	completed := map[string]bool{}
	for i, e := range events[2:] {
		last := i == len(events)-3
		switch e.Type {
		case evTeamStart:
			if openTeam != "" {
				return fmt.Errorf("%w: team %s started while %s still open", ErrOrder, e.Team, openTeam)
			}
			if completed[e.Team] {
				return fmt.Errorf("%w: team %s started twice", ErrOrder, e.Team)
			}
			openTeam = e.Team
		case evMemberAssign:
			if e.Team != openTeam {
				return fmt.Errorf("%w: member_assigned for %s outside its team window", ErrOrder, e.Team)
			}
		case evTeamComplete, evTeamSkipped:
			if e.Team != openTeam {
				return fmt.Errorf("%w: %s for %s without matching team_node_start", ErrOrder, e.Type, e.Team)
			}
			completed[e.Team] = true
			openTeam = ""
		case evComplete, evError:
			if !last {
				return fmt.Errorf("%w: events after terminal %s", ErrOrder, e.Type)
			}
			if openTeam != "" && e.Type == evComplete {
				return fmt.Errorf("%w: allocation_complete with team %s still open", ErrOrder, openTeam)
			}
		case evPMStart, evPMComplete:
			return fmt.Errorf("%w: duplicate %s", ErrOrder, e.Type)
		default:
			return fmt.Errorf("%w: unknown event %q", ErrOrder, e.Type)
		}
	}

	terminal := events[len(events)-1].Type
	if terminal != evComplete && terminal != evError {
		return fmt.Errorf("%w: stream ended with non-terminal %s", ErrOrder, terminal)
	}
	return nil
}
