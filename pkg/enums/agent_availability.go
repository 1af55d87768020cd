package enums

import "fmt"

// AgentAvailability is the agent's self-reported working state. Booking
// eligibility is derived from assignments, not from this flag alone.
type AgentAvailability string

const (
	AgentAvailable AgentAvailability = "available"
	AgentBusy      AgentAvailability = "busy"
	AgentOffDuty   AgentAvailability = "off_duty"
)

var validAgentAvailabilities = []AgentAvailability{
	AgentAvailable,
	AgentBusy,
	AgentOffDuty,
}

// String implements fmt.Stringer.
func (a AgentAvailability) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AgentAvailability.
func (a AgentAvailability) IsValid() bool {
	for _, candidate := range validAgentAvailabilities {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAgentAvailability converts raw input into an AgentAvailability.
func ParseAgentAvailability(value string) (AgentAvailability, error) {
	for _, candidate := range validAgentAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid agent availability %q", value)
}
