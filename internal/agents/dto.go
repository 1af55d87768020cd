package agents

import (
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// AvailabilityInput is the agent's self-service working state update.
type AvailabilityInput struct {
	Availability string `json:"availability" validate:"required"`
}

// AdminPatchInput adjusts an agent's booking profile. Nil fields are left
// untouched.
type AdminPatchInput struct {
	Availability  *string `json:"availability,omitempty"`
	DailyCapacity *int    `json:"daily_capacity,omitempty"`
	Status        *string `json:"status,omitempty"`
}

// Filters narrows agent listings.
type Filters struct {
	Status       *enums.AgentStatus
	Availability *enums.AgentAvailability
}

// List is a cursor page of agents.
type List struct {
	Items      []models.Agent
	NextCursor *string
}
