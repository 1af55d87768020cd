package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/internal/audit"
	"github.com/tidyops/tidyops-backend/internal/scheduling"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type auditRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, entry audit.Entry) error
}

// Service defines the lead intake and booking operations.
type Service interface {
	Create(ctx context.Context, input CreateInput, actorUserID uuid.UUID) (*models.Lead, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	List(ctx context.Context, params pagination.Params, filters Filters) (*List, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Lead, error)
	Schedule(ctx context.Context, leadID uuid.UUID, input ScheduleInput, actorUserID uuid.UUID) (*models.Schedule, error)
}

type service struct {
	repo  Repository
	tx    txRunner
	audit auditRecorder
}

// NewService builds the lead service with the required dependencies.
func NewService(repo Repository, tx txRunner, recorder auditRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leads repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if recorder == nil {
		return nil, fmt.Errorf("audit recorder required")
	}
	return &service{repo: repo, tx: tx, audit: recorder}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput, actorUserID uuid.UUID) (*models.Lead, error) {
	name := strings.TrimSpace(input.CustomerName)
	address := strings.TrimSpace(input.Address)
	if name == "" || address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name and address are required")
	}

	lead := &models.Lead{
		CustomerName:    name,
		CustomerPhone:   input.CustomerPhone,
		CustomerEmail:   input.CustomerEmail,
		Address:         address,
		Status:          enums.LeadStatusNew,
		AssignmentState: enums.LeadUnassigned,
		Notes:           input.Notes,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateLead(ctx, lead); err != nil {
			return err
		}
		return s.audit.Record(ctx, tx, audit.Entry{
			ActorUserID:  actorUserID,
			Action:       "lead.created",
			ResourceType: "lead",
			ResourceID:   lead.ID,
			Details:      map[string]any{"customer_name": lead.CustomerName},
		})
	})
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	lead, err := s.repo.FindLead(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "lead not found")
	}
	return lead, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters Filters) (*List, error) {
	return s.repo.ListLeads(ctx, params, filters)
}

// Update patches contact fields and, when requested, moves the lead through
// the pipeline. Status changes to scheduled happen via Schedule, not here.
func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Lead, error) {
	lead, err := s.repo.FindLead(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "lead not found")
	}

	updates := map[string]any{}
	if input.CustomerName != nil {
		if strings.TrimSpace(*input.CustomerName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be blank")
		}
		updates["customer_name"] = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		updates["customer_phone"] = *input.CustomerPhone
	}
	if input.CustomerEmail != nil {
		updates["customer_email"] = *input.CustomerEmail
	}
	if input.Address != nil {
		if strings.TrimSpace(*input.Address) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address cannot be blank")
		}
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.Status != nil {
		status, err := enums.ParseLeadStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		if status == enums.LeadStatusScheduled {
			return nil, pkgerrors.New(pkgerrors.CodePrecondition, "use the schedule endpoint to move a lead to scheduled")
		}
		if lead.Status == enums.LeadStatusCancelled && status != enums.LeadStatusCancelled {
			return nil, pkgerrors.New(pkgerrors.CodePrecondition, "cancelled leads cannot re-enter the pipeline")
		}
		if lead.AssignmentState == enums.LeadAssigned && status == enums.LeadStatusCancelled {
			return nil, pkgerrors.New(pkgerrors.CodePrecondition, "cancel the active assignment before cancelling the lead")
		}
		updates["status"] = status
	}

	if len(updates) == 0 {
		return lead, nil
	}
	if err := s.repo.UpdateLead(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.FindLead(ctx, id)
}

// Schedule books a visit window for the lead and flips it to scheduled. Any
// previous active schedule is retired so at most one stays bookable.
func (s *service) Schedule(ctx context.Context, leadID uuid.UUID, input ScheduleInput, actorUserID uuid.UUID) (*models.Schedule, error) {
	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date must be formatted yyyy-mm-dd")
	}
	if _, err := scheduling.ResolveWindow(input.TimeSlot, input.DurationMinutes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeFormat, err, "unable to resolve the requested time slot")
	}

	var schedule *models.Schedule
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		lead, err := repo.FindLead(ctx, leadID)
		if err != nil {
			return notFoundOr(err, "lead not found")
		}
		if lead.Status == enums.LeadStatusCancelled {
			return pkgerrors.New(pkgerrors.CodePrecondition, "cancelled leads cannot be scheduled")
		}
		if lead.Status == enums.LeadStatusCompleted {
			return pkgerrors.New(pkgerrors.CodePrecondition, "completed leads cannot be rescheduled")
		}
		if lead.AssignmentState == enums.LeadAssigned {
			return pkgerrors.New(pkgerrors.CodePrecondition, "cancel the active assignment before rescheduling")
		}

		if err := repo.DeactivateSchedulesForLead(ctx, leadID); err != nil {
			return err
		}

		schedule = &models.Schedule{
			LeadID:          leadID,
			Date:            date,
			TimeSlot:        input.TimeSlot,
			DurationMinutes: input.DurationMinutes,
			IsActive:        true,
		}
		if _, err := repo.CreateSchedule(ctx, schedule); err != nil {
			return err
		}

		if err := repo.UpdateLead(ctx, leadID, map[string]any{
			"status": enums.LeadStatusScheduled,
		}); err != nil {
			return err
		}

		return s.audit.Record(ctx, tx, audit.Entry{
			ActorUserID:  actorUserID,
			Action:       "lead.scheduled",
			ResourceType: "lead",
			ResourceID:   leadID,
			Details: map[string]any{
				"schedule_id": schedule.ID.String(),
				"date":        input.Date,
				"time_slot":   input.TimeSlot,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	}
	return err
}
