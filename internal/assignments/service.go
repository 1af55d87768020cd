package assignments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tidyops/tidyops-backend/internal/audit"
	"github.com/tidyops/tidyops-backend/internal/scheduling"
	"github.com/tidyops/tidyops-backend/pkg/config"
	"github.com/tidyops/tidyops-backend/pkg/db"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
	"github.com/tidyops/tidyops-backend/pkg/metrics"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type auditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error
}

// Service defines the assignment workflow operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Assignment, error)
	UpdateStatus(ctx context.Context, input StatusUpdateInput) (*models.Assignment, error)
	Get(ctx context.Context, id uuid.UUID, actor Actor) (*models.Assignment, error)
	List(ctx context.Context, params pagination.Params, filters Filters, actor Actor) (*List, error)
	ListTaskLogs(ctx context.Context, assignmentID uuid.UUID, actor Actor) ([]models.TaskLog, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
}

type service struct {
	repo    Repository
	tx      txRunner
	audit   auditRecorder
	metrics *metrics.SchedulingMetrics
	cfg     config.SchedulingConfig
	locks   *keyedLocks
}

// NewService builds the assignment service with the required dependencies.
func NewService(repo Repository, tx txRunner, recorder auditRecorder, schedMetrics *metrics.SchedulingMetrics, cfg config.SchedulingConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("assignments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		audit:   recorder,
		metrics: schedMetrics,
		cfg:     cfg,
		locks:   newKeyedLocks(),
	}, nil
}

// Create books an agent onto a lead's schedule. The whole precondition chain
// and the write run under a per-agent lock and one transaction so concurrent
// bookings against the same agent cannot both pass their conflict checks.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Assignment, error) {
	unlock := s.locks.Lock(input.AgentID.String())
	defer unlock()

	var created *models.Assignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		lead, err := repo.FindLead(ctx, input.LeadID)
		if err != nil {
			return notFoundOr(err, "lead not found")
		}
		if lead.Status == enums.LeadStatusCancelled {
			return pkgerrors.New(pkgerrors.CodePrecondition, "lead is cancelled")
		}
		if lead.Status != enums.LeadStatusScheduled {
			return pkgerrors.New(pkgerrors.CodePrecondition, "lead is not in a scheduled state")
		}
		if lead.AssignmentState == enums.LeadAssigned {
			return pkgerrors.New(pkgerrors.CodePrecondition, "lead already has an active assignment")
		}

		existing, err := repo.FindActiveByLead(ctx, input.LeadID)
		if err != nil {
			return err
		}
		if existing != nil {
			return pkgerrors.New(pkgerrors.CodePrecondition, "lead already has an active assignment")
		}

		schedule, err := repo.FindSchedule(ctx, input.ScheduleID)
		if err != nil {
			return notFoundOr(err, "schedule not found")
		}
		if schedule.LeadID != input.LeadID || !schedule.IsActive {
			return pkgerrors.New(pkgerrors.CodeNotFound, "schedule not found for lead")
		}

		agent, err := repo.FindAgent(ctx, input.AgentID)
		if err != nil {
			return notFoundOr(err, "agent not found")
		}
		if agent.Status != enums.AgentStatusActive {
			return pkgerrors.New(pkgerrors.CodePrecondition, "agent is not active")
		}

		capacity := agent.DailyCapacity
		if capacity <= 0 {
			capacity = s.cfg.DefaultDailyCapacity
		}
		count, err := repo.CountActiveAssignedOn(ctx, input.AgentID, time.Now())
		if err != nil {
			return err
		}
		if count >= int64(capacity) {
			return pkgerrors.New(pkgerrors.CodeCapacityExceeded, "agent has reached the daily assignment capacity").
				WithDetails(map[string]any{"daily_capacity": capacity})
		}

		target, err := scheduling.ResolveWindow(schedule.TimeSlot, schedule.DurationMinutes)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeFormat, err, "unable to resolve schedule time slot")
		}

		sameDay, err := repo.ListActiveOnDate(ctx, input.AgentID, schedule.Date)
		if err != nil {
			return err
		}
		for _, other := range sameDay {
			if other.Schedule == nil {
				continue
			}
			window, err := scheduling.ResolveWindow(other.Schedule.TimeSlot, other.Schedule.DurationMinutes)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeFormat, err, "unable to resolve an existing assignment time slot")
			}
			if !scheduling.SatisfiesBuffer(target, window, s.cfg.BufferMinutes) {
				return pkgerrors.New(pkgerrors.CodeBufferConflict, "agent has a same-day assignment within the travel buffer").
					WithDetails(map[string]any{
						"conflicting_slot": other.Schedule.TimeSlot,
						"buffer_minutes":   s.cfg.BufferMinutes,
					})
			}
		}

		assignment := &models.Assignment{
			LeadID:           input.LeadID,
			ScheduleID:       input.ScheduleID,
			AgentID:          input.AgentID,
			AssignedByUserID: input.AssignedBy,
			Status:           enums.AssignmentStatusPending,
			IsActive:         true,
			Notes:            input.Notes,
			CompletionImages: pq.StringArray{},
		}
		if _, err := repo.CreateAssignment(ctx, assignment); err != nil {
			if db.IsUniqueViolation(err, "uq_assignments_active_lead") {
				return pkgerrors.New(pkgerrors.CodePrecondition, "lead already has an active assignment")
			}
			return err
		}

		if err := repo.UpdateLead(ctx, input.LeadID, map[string]any{
			"assignment_state": enums.LeadAssigned,
		}); err != nil {
			return err
		}

		if err := s.audit.Record(ctx, tx, audit.Entry{
			ActorUserID:  input.AssignedBy,
			Action:       "assignment.created",
			ResourceType: "assignment",
			ResourceID:   assignment.ID,
			Details: map[string]any{
				"lead_id":     input.LeadID.String(),
				"schedule_id": input.ScheduleID.String(),
				"agent_id":    input.AgentID.String(),
			},
		}); err != nil {
			return err
		}

		created = assignment
		return nil
	})
	if err != nil {
		s.metrics.IncCreated(createOutcome(err))
		return nil, err
	}

	s.metrics.IncCreated("success")
	return s.repo.FindAssignment(ctx, created.ID)
}

// UpdateStatus applies a lifecycle transition with role-dependent rules and
// writes the task log entry in the same transaction as the status change.
func (s *service) UpdateStatus(ctx context.Context, input StatusUpdateInput) (*models.Assignment, error) {
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown assignment status %q", input.NewStatus))
	}

	var fromStatus enums.AssignmentStatus
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := repo.FindAssignment(ctx, input.AssignmentID)
		if err != nil {
			return notFoundOr(err, "assignment not found")
		}
		if !assignment.IsActive {
			return pkgerrors.New(pkgerrors.CodePrecondition, "cannot update an inactive assignment")
		}

		isAdmin := input.Actor.IsAdmin()
		if !isAdmin {
			if input.Actor.AgentID == nil || *input.Actor.AgentID != assignment.AgentID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "assignment belongs to another agent")
			}
		}

		if !CanTransition(isAdmin, assignment.Status, input.NewStatus) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition,
				fmt.Sprintf("cannot move assignment from %s to %s", assignment.Status, input.NewStatus))
		}
		if !isAdmin && input.NewStatus == enums.AssignmentStatusCompleted && len(input.CompletionImages) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "completing an assignment requires at least one completion image")
		}

		now := time.Now().UTC()
		updates := map[string]any{"status": input.NewStatus}
		switch input.NewStatus {
		case enums.AssignmentStatusInProgress:
			updates["started_at"] = now
		case enums.AssignmentStatusCompleted:
			updates["completed_at"] = now
		case enums.AssignmentStatusCancelled:
			updates["is_active"] = false
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if len(input.CompletionImages) > 0 {
			updates["completion_images"] = pq.StringArray(input.CompletionImages)
		}

		if err := repo.UpdateAssignment(ctx, assignment.ID, updates); err != nil {
			return err
		}

		switch input.NewStatus {
		case enums.AssignmentStatusCompleted:
			if err := repo.UpdateLead(ctx, assignment.LeadID, map[string]any{
				"status": enums.LeadStatusCompleted,
			}); err != nil {
				return err
			}
		case enums.AssignmentStatusCancelled:
			if err := repo.UpdateLead(ctx, assignment.LeadID, map[string]any{
				"assignment_state": enums.LeadUnassigned,
			}); err != nil {
				return err
			}
		}

		if err := repo.CreateTaskLog(ctx, &models.TaskLog{
			AssignmentID:    assignment.ID,
			FromStatus:      assignment.Status,
			ToStatus:        input.NewStatus,
			ChangedByUserID: input.Actor.UserID,
			Reason:          input.Reason,
		}); err != nil {
			return err
		}

		fromStatus = assignment.Status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(fromStatus.String(), input.NewStatus.String())
	return s.repo.FindAssignment(ctx, input.AssignmentID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID, actor Actor) (*models.Assignment, error) {
	assignment, err := s.repo.FindAssignment(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "assignment not found")
	}
	if err := requireOwnership(actor, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters, actor Actor) (*List, error) {
	// Agents only ever see their own queue.
	if actor.Role == enums.SystemRoleAgent {
		if actor.AgentID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "agent profile required")
		}
		filters.AgentID = actor.AgentID
	}
	return s.repo.ListAssignments(ctx, params, filters)
}

func (s *service) ListTaskLogs(ctx context.Context, assignmentID uuid.UUID, actor Actor) ([]models.TaskLog, error) {
	assignment, err := s.repo.FindAssignment(ctx, assignmentID)
	if err != nil {
		return nil, notFoundOr(err, "assignment not found")
	}
	if err := requireOwnership(actor, assignment); err != nil {
		return nil, err
	}
	return s.repo.ListTaskLogs(ctx, assignmentID)
}

// Delete is the administrative hard delete outside the normal lifecycle.
// An active assignment releases its lead so the lead can be rebooked.
func (s *service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	if !actor.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only admins may delete assignments")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		assignment, err := repo.FindAssignment(ctx, id)
		if err != nil {
			return notFoundOr(err, "assignment not found")
		}

		if assignment.IsActive {
			if err := repo.UpdateLead(ctx, assignment.LeadID, map[string]any{
				"assignment_state": enums.LeadUnassigned,
			}); err != nil {
				return err
			}
		}

		if err := repo.DeleteAssignment(ctx, id); err != nil {
			return err
		}

		return s.audit.Record(ctx, tx, audit.Entry{
			ActorUserID:  actor.UserID,
			Action:       "assignment.deleted",
			ResourceType: "assignment",
			ResourceID:   id,
			Details: map[string]any{
				"lead_id":  assignment.LeadID.String(),
				"agent_id": assignment.AgentID.String(),
				"status":   assignment.Status.String(),
			},
		})
	})
}

func requireOwnership(actor Actor, assignment *models.Assignment) error {
	if actor.Role != enums.SystemRoleAgent {
		return nil
	}
	if actor.AgentID == nil || *actor.AgentID != assignment.AgentID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "assignment belongs to another agent")
	}
	return nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return err
}

func createOutcome(err error) string {
	coded := pkgerrors.As(err)
	if coded == nil {
		return "error"
	}
	switch coded.Code() {
	case pkgerrors.CodeCapacityExceeded:
		return "capacity_exceeded"
	case pkgerrors.CodeBufferConflict:
		return "buffer_conflict"
	case pkgerrors.CodePrecondition:
		return "precondition_failed"
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeFormat:
		return "format_error"
	default:
		return "error"
	}
}
