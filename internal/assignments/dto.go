package assignments

import (
	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// Actor identifies who is driving an operation. AgentID is set only when
// the caller acts as an agent; admins and staff leave it nil.
type Actor struct {
	UserID  uuid.UUID
	AgentID *uuid.UUID
	Role    enums.SystemRole
}

// IsAdmin reports whether the actor carries administrative privileges.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.SystemRoleAdmin
}

// CreateInput carries everything needed to book an agent onto a schedule.
type CreateInput struct {
	LeadID     uuid.UUID
	ScheduleID uuid.UUID
	AgentID    uuid.UUID
	Notes      *string
	AssignedBy uuid.UUID
}

// StatusUpdateInput captures a requested lifecycle transition.
type StatusUpdateInput struct {
	AssignmentID     uuid.UUID
	NewStatus        enums.AssignmentStatus
	Actor            Actor
	Reason           *string
	Notes            *string
	CompletionImages []string
}

// Filters narrows assignment listings.
type Filters struct {
	AgentID    *uuid.UUID
	LeadID     *uuid.UUID
	Status     *enums.AssignmentStatus
	ActiveOnly bool
}

// List is a cursor page of assignments.
type List struct {
	Items      []models.Assignment
	NextCursor *string
}
