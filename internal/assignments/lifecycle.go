package assignments

import (
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// agentTransitions is the full edge set available to agent actors. Terminal
// statuses and on_hold have no outgoing edges for agents.
var agentTransitions = map[enums.AssignmentStatus][]enums.AssignmentStatus{
	enums.AssignmentStatusPending: {
		enums.AssignmentStatusInProgress,
		enums.AssignmentStatusCancelled,
	},
	enums.AssignmentStatusInProgress: {
		enums.AssignmentStatusCompleted,
		enums.AssignmentStatusCancelled,
	},
}

// adminTargets is the set of statuses an admin may set directly. Admins are
// not bound by the from-state restriction that applies to agents; only the
// target status is checked. This asymmetry is intentional and carried over
// from the established workflow.
var adminTargets = map[enums.AssignmentStatus]struct{}{
	enums.AssignmentStatusPending:     {},
	enums.AssignmentStatusInProgress:  {},
	enums.AssignmentStatusCompleted:   {},
	enums.AssignmentStatusRescheduled: {},
	enums.AssignmentStatusCancelled:   {},
	enums.AssignmentStatusOnHold:      {},
}

// AllowedNextStatuses returns the statuses the actor may move the assignment
// into from the given status.
func AllowedNextStatuses(isAdmin bool, from enums.AssignmentStatus) []enums.AssignmentStatus {
	if isAdmin {
		targets := make([]enums.AssignmentStatus, 0, len(adminTargets))
		for status := range adminTargets {
			targets = append(targets, status)
		}
		return targets
	}
	return agentTransitions[from]
}

// CanTransition reports whether the actor role permits the from/to edge.
func CanTransition(isAdmin bool, from, to enums.AssignmentStatus) bool {
	if isAdmin {
		_, ok := adminTargets[to]
		return ok
	}
	for _, allowed := range agentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
