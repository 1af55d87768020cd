package leads

import (
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// CreateInput carries a new customer lead.
type CreateInput struct {
	CustomerName  string  `json:"customer_name" validate:"required"`
	CustomerPhone *string `json:"customer_phone,omitempty" validate:"omitempty,min=7"`
	CustomerEmail *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	Address       string  `json:"address" validate:"required"`
	Notes         *string `json:"notes,omitempty"`
}

// UpdateInput patches an existing lead. Nil fields are left untouched.
type UpdateInput struct {
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	Address       *string `json:"address,omitempty"`
	Status        *string `json:"status,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// ScheduleInput books a visit window for a lead.
type ScheduleInput struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot        string `json:"time_slot" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}

// Filters narrows lead listings.
type Filters struct {
	Status          *enums.LeadStatus
	AssignmentState *enums.LeadAssignmentState
}

// List is a cursor page of leads.
type List struct {
	Items      []models.Lead
	NextCursor *string
}
