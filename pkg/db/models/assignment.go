package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// Assignment binds an agent to a lead's scheduled visit and carries the
// lifecycle state. Rows are deactivated on cancellation, never deleted in
// the normal flow.
type Assignment struct {
	ID               uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	LeadID           uuid.UUID              `gorm:"column:lead_id;type:uuid;not null"`
	Lead             *Lead                  `gorm:"foreignKey:LeadID"`
	ScheduleID       uuid.UUID              `gorm:"column:schedule_id;type:uuid;not null"`
	Schedule         *Schedule              `gorm:"foreignKey:ScheduleID"`
	AgentID          uuid.UUID              `gorm:"column:agent_id;type:uuid;not null"`
	Agent            *Agent                 `gorm:"foreignKey:AgentID"`
	AssignedByUserID uuid.UUID              `gorm:"column:assigned_by_user_id;type:uuid;not null"`
	Status           enums.AssignmentStatus `gorm:"column:status;not null;default:'pending'"`
	IsActive         bool                   `gorm:"column:is_active;not null;default:true"`
	AssignedAt       time.Time              `gorm:"column:assigned_at;autoCreateTime"`
	StartedAt        *time.Time             `gorm:"column:started_at"`
	CompletedAt      *time.Time             `gorm:"column:completed_at"`
	Notes            *string                `gorm:"column:notes"`
	CompletionImages pq.StringArray         `gorm:"type:text[];column:completion_images;not null;default:'{}'"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
