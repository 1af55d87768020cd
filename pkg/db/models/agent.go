package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// Agent is a bookable field worker backed by a user account.
type Agent struct {
	ID            uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID               `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	User          *User                   `gorm:"foreignKey:UserID"`
	Availability  enums.AgentAvailability `gorm:"column:availability;not null;default:'available'"`
	DailyCapacity int                     `gorm:"column:daily_capacity;not null;default:5"`
	Status        enums.AgentStatus       `gorm:"column:status;not null;default:'active'"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
