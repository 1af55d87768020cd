package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// Lead is a prospective cleaning visit requested by a customer.
type Lead struct {
	ID              uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerName    string                    `gorm:"column:customer_name;not null"`
	CustomerPhone   *string                   `gorm:"column:customer_phone"`
	CustomerEmail   *string                   `gorm:"column:customer_email"`
	Address         string                    `gorm:"column:address;not null"`
	Status          enums.LeadStatus          `gorm:"column:status;not null;default:'new'"`
	AssignmentState enums.LeadAssignmentState `gorm:"column:assignment_state;not null;default:'unassigned'"`
	Notes           *string                   `gorm:"column:notes"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
