package enums

import "fmt"

// LeadAssignmentState records whether a lead currently holds an active
// assignment. At most one active assignment exists per lead.
type LeadAssignmentState string

const (
	LeadUnassigned LeadAssignmentState = "unassigned"
	LeadAssigned   LeadAssignmentState = "assigned"
)

var validLeadAssignmentStates = []LeadAssignmentState{
	LeadUnassigned,
	LeadAssigned,
}

// String implements fmt.Stringer.
func (l LeadAssignmentState) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LeadAssignmentState.
func (l LeadAssignmentState) IsValid() bool {
	for _, candidate := range validLeadAssignmentStates {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLeadAssignmentState converts raw input into a LeadAssignmentState.
func ParseLeadAssignmentState(value string) (LeadAssignmentState, error) {
	for _, candidate := range validLeadAssignmentStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lead assignment state %q", value)
}
