package models

import (
	"time"

	"github.com/google/uuid"
)

// Schedule pins a lead's visit to a calendar day and a clock slot. The slot
// is stored as the customer-facing "H:MM AM/PM" string and resolved to
// minutes at decision time.
type Schedule struct {
	ID              uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	LeadID          uuid.UUID `gorm:"column:lead_id;type:uuid;not null"`
	Lead            *Lead     `gorm:"foreignKey:LeadID"`
	Date            time.Time `gorm:"column:date;type:date;not null"`
	TimeSlot        string    `gorm:"column:time_slot;not null"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null"`
	IsActive        bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// DateKey returns the calendar day in yyyy-mm-dd form for same-day checks.
func (s Schedule) DateKey() string {
	return s.Date.Format("2006-01-02")
}
