package agents

import (
	"context"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
)

// Repository defines persistence operations for agent profiles.
type Repository interface {
	FindAgent(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	ListAgents(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	UpdateAgent(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
