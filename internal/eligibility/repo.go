package eligibility

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an eligibility repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindSchedule(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *repository) ListActiveAgents(ctx context.Context) ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.AgentStatusActive).
		Find(&agents).Error
	if err != nil {
		return nil, err
	}
	return agents, nil
}

func (r *repository) CountActiveAssignedOn(ctx context.Context, agentID uuid.UUID, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("agent_id = ? AND is_active = ?", agentID, true).
		Where("assigned_at >= ? AND assigned_at < ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListActiveOnDate(ctx context.Context, agentID uuid.UUID, date time.Time) ([]models.Assignment, error) {
	var rows []models.Assignment
	err := r.db.WithContext(ctx).
		Preload("Schedule").
		Where("agent_id = ? AND is_active = ?", agentID, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	key := date.Format("2006-01-02")
	matched := make([]models.Assignment, 0, len(rows))
	for _, row := range rows {
		if row.Schedule != nil && row.Schedule.DateKey() == key {
			matched = append(matched, row)
		}
	}
	return matched, nil
}
