package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/internal/audit"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
	"gorm.io/gorm"
)

type auditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error
}

// Service defines agent roster operations.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	UpdateAvailability(ctx context.Context, agentID uuid.UUID, input AvailabilityInput) (*models.Agent, error)
	AdminPatch(ctx context.Context, agentID uuid.UUID, input AdminPatchInput, actorUserID uuid.UUID) (*models.Agent, error)
}

type service struct {
	repo  Repository
	audit auditRecorder
}

// NewService builds the agent service with the required dependencies.
func NewService(repo Repository, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("agents repository required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, audit: recorder}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	agent, err := s.repo.FindAgent(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "agent not found")
	}
	return agent, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	return s.repo.ListAgents(ctx, params, filters)
}

// UpdateAvailability is the agent's own working-state toggle. It never touches
// capacity or status, those stay admin-only.
func (s *service) UpdateAvailability(ctx context.Context, agentID uuid.UUID, input AvailabilityInput) (*models.Agent, error) {
	availability, err := enums.ParseAgentAvailability(input.Availability)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	agent, err := s.repo.FindAgent(ctx, agentID)
	if err != nil {
		return nil, notFoundOr(err, "agent not found")
	}
	if agent.Status != enums.AgentStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "inactive agents cannot change availability")
	}

	if err := s.repo.UpdateAgent(ctx, agentID, map[string]any{
		"availability": availability,
	}); err != nil {
		return nil, err
	}
	return s.repo.FindAgent(ctx, agentID)
}

func (s *service) AdminPatch(ctx context.Context, agentID uuid.UUID, input AdminPatchInput, actorUserID uuid.UUID) (*models.Agent, error) {
	if _, err := s.repo.FindAgent(ctx, agentID); err != nil {
		return nil, notFoundOr(err, "agent not found")
	}

	updates := map[string]any{}
	if input.Availability != nil {
		availability, err := enums.ParseAgentAvailability(*input.Availability)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		updates["availability"] = availability
	}
	if input.DailyCapacity != nil {
		if *input.DailyCapacity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily capacity must be at least 1")
		}
		updates["daily_capacity"] = *input.DailyCapacity
	}
	if input.Status != nil {
		status, err := enums.ParseAgentStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		updates["status"] = status
	}
	if len(updates) == 0 {
		return s.repo.FindAgent(ctx, agentID)
	}

	if err := s.repo.UpdateAgent(ctx, agentID, updates); err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, nil, audit.Entry{
		ActorUserID:  actorUserID,
		Action:       "agent.updated",
		ResourceType: "agent",
		ResourceID:   agentID,
		Details:      auditDetails(input),
	}); err != nil {
		return nil, err
	}
	return s.repo.FindAgent(ctx, agentID)
}

func auditDetails(input AdminPatchInput) map[string]any {
	details := map[string]any{}
	if input.Availability != nil {
		details["availability"] = *input.Availability
	}
	if input.DailyCapacity != nil {
		details["daily_capacity"] = *input.DailyCapacity
	}
	if input.Status != nil {
		details["status"] = *input.Status
	}
	return details
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return err
}
