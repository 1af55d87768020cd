package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog captures administrative and workflow actions for traceability.
type AuditLog struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ActorUserID  uuid.UUID       `gorm:"column:actor_user_id;type:uuid;not null"`
	Action       string          `gorm:"column:action;not null"`
	ResourceType string          `gorm:"column:resource_type;not null"`
	ResourceID   uuid.UUID       `gorm:"column:resource_id;type:uuid;not null"`
	Details      json.RawMessage `gorm:"column:details;type:jsonb"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
