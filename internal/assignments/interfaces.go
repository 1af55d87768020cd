package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the assignment workflow.
// Cross-table reads (leads, schedules, agents) live here because the create
// precondition chain checks them inside one transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateAssignment(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error)
	FindAssignment(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	FindActiveByLead(ctx context.Context, leadID uuid.UUID) (*models.Assignment, error)
	ListAssignments(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	ListActiveOnDate(ctx context.Context, agentID uuid.UUID, date time.Time) ([]models.Assignment, error)
	CountActiveAssignedOn(ctx context.Context, agentID uuid.UUID, day time.Time) (int64, error)
	UpdateAssignment(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteAssignment(ctx context.Context, id uuid.UUID) error

	CreateTaskLog(ctx context.Context, entry *models.TaskLog) error
	ListTaskLogs(ctx context.Context, assignmentID uuid.UUID) ([]models.TaskLog, error)

	FindLead(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	UpdateLead(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindSchedule(ctx context.Context, id uuid.UUID) (*models.Schedule, error)
	FindAgent(ctx context.Context, id uuid.UUID) (*models.Agent, error)
}
