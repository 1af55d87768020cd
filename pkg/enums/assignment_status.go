package enums

import "fmt"

// AssignmentStatus tracks the lifecycle of a job assignment.
type AssignmentStatus string

const (
	AssignmentStatusPending     AssignmentStatus = "pending"
	AssignmentStatusInProgress  AssignmentStatus = "in_progress"
	AssignmentStatusCompleted   AssignmentStatus = "completed"
	AssignmentStatusRescheduled AssignmentStatus = "rescheduled"
	AssignmentStatusCancelled   AssignmentStatus = "cancelled"
	AssignmentStatusOnHold      AssignmentStatus = "on_hold"
)

var validAssignmentStatuses = []AssignmentStatus{
	AssignmentStatusPending,
	AssignmentStatusInProgress,
	AssignmentStatusCompleted,
	AssignmentStatusRescheduled,
	AssignmentStatusCancelled,
	AssignmentStatusOnHold,
}

// String implements fmt.Stringer.
func (a AssignmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AssignmentStatus.
func (a AssignmentStatus) IsValid() bool {
	for _, candidate := range validAssignmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the ordinary agent flow.
func (a AssignmentStatus) IsTerminal() bool {
	switch a {
	case AssignmentStatusCompleted, AssignmentStatusRescheduled, AssignmentStatusCancelled:
		return true
	default:
		return false
	}
}

// ParseAssignmentStatus converts raw input into an AssignmentStatus.
func ParseAssignmentStatus(value string) (AssignmentStatus, error) {
	for _, candidate := range validAssignmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assignment status %q", value)
}
