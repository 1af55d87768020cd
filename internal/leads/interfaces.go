package leads

import (
	"context"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Repository defines persistence operations for leads and their schedules.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateLead(ctx context.Context, lead *models.Lead) (*models.Lead, error)
	FindLead(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	ListLeads(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	UpdateLead(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreateSchedule(ctx context.Context, schedule *models.Schedule) (*models.Schedule, error)
	FindActiveScheduleByLead(ctx context.Context, leadID uuid.UUID) (*models.Schedule, error)
	DeactivateSchedulesForLead(ctx context.Context, leadID uuid.UUID) error
}
