package eligibility

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
)

// Repository defines the read surface the eligibility engine needs. It is
// deliberately read-only; eligibility is advisory and never writes.
type Repository interface {
	FindSchedule(ctx context.Context, id uuid.UUID) (*models.Schedule, error)
	ListActiveAgents(ctx context.Context) ([]models.Agent, error)
	CountActiveAssignedOn(ctx context.Context, agentID uuid.UUID, day time.Time) (int64, error)
	ListActiveOnDate(ctx context.Context, agentID uuid.UUID, date time.Time) ([]models.Assignment, error)
}
