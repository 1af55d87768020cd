package eligibility

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/internal/scheduling"
	"github.com/tidyops/tidyops-backend/pkg/config"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
	"github.com/tidyops/tidyops-backend/pkg/metrics"
	"gorm.io/gorm"
)

// Service computes which agents may be booked for a schedule. Eligibility is
// always derived fresh from stored facts; there is no cached busy flag.
type Service interface {
	EligibleAgents(ctx context.Context, scheduleID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	repo    Repository
	cfg     config.SchedulingConfig
	metrics *metrics.SchedulingMetrics
}

// NewService builds the eligibility engine.
func NewService(repo Repository, schedMetrics *metrics.SchedulingMetrics, cfg config.SchedulingConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("eligibility repository required")
	}
	return &service{repo: repo, cfg: cfg, metrics: schedMetrics}, nil
}

// EligibleAgents returns the set of active agents that can take the given
// schedule. A target slot that cannot be resolved yields an empty set with
// no error: no agent can be proven safe against an unparsable slot.
func (s *service) EligibleAgents(ctx context.Context, scheduleID uuid.UUID) ([]uuid.UUID, error) {
	started := time.Now()

	schedule, err := s.repo.FindSchedule(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "schedule not found")
		}
		return nil, err
	}
	if !schedule.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "schedule not found")
	}

	target, err := scheduling.ResolveWindow(schedule.TimeSlot, schedule.DurationMinutes)
	if err != nil {
		s.metrics.ObserveEligibility("unparsable_slot", time.Since(started))
		return []uuid.UUID{}, nil
	}

	agents, err := s.repo.ListActiveAgents(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]uuid.UUID, 0, len(agents))
	for _, agent := range agents {
		ok, err := s.agentFits(ctx, agent, schedule, target)
		if err != nil {
			return nil, err
		}
		if ok {
			eligible = append(eligible, agent.ID)
		}
	}

	s.metrics.ObserveEligibility("ok", time.Since(started))
	return eligible, nil
}

// agentFits applies the per-agent filters cheapest first and short-circuits
// on the first failure.
func (s *service) agentFits(ctx context.Context, agent models.Agent, schedule *models.Schedule, target scheduling.Window) (bool, error) {
	if agent.Availability != enums.AgentAvailable {
		return false, nil
	}

	capacity := agent.DailyCapacity
	if capacity <= 0 {
		capacity = s.cfg.DefaultDailyCapacity
	}
	count, err := s.repo.CountActiveAssignedOn(ctx, agent.ID, time.Now())
	if err != nil {
		return false, err
	}
	if count >= int64(capacity) {
		return false, nil
	}

	sameDay, err := s.repo.ListActiveOnDate(ctx, agent.ID, schedule.Date)
	if err != nil {
		return false, err
	}
	for _, other := range sameDay {
		if other.Schedule == nil {
			continue
		}
		window, err := scheduling.ResolveWindow(other.Schedule.TimeSlot, other.Schedule.DurationMinutes)
		if err != nil {
			// cannot prove the buffer holds against a broken slot
			return false, nil
		}
		if !scheduling.SatisfiesBuffer(target, window, s.cfg.BufferMinutes) {
			return false, nil
		}
	}
	return true, nil
}
