package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// TaskLog is the append-only record of assignment status transitions.
type TaskLog struct {
	ID              uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AssignmentID    uuid.UUID              `gorm:"column:assignment_id;type:uuid;not null;index"`
	FromStatus      enums.AssignmentStatus `gorm:"column:from_status;not null"`
	ToStatus        enums.AssignmentStatus `gorm:"column:to_status;not null"`
	ChangedByUserID uuid.UUID              `gorm:"column:changed_by_user_id;type:uuid;not null"`
	Reason          *string                `gorm:"column:reason"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
}
