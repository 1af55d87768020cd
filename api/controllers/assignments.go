package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tidyops/tidyops-backend/api/responses"
	"github.com/tidyops/tidyops-backend/api/validators"
	"github.com/tidyops/tidyops-backend/internal/assignments"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
	"github.com/tidyops/tidyops-backend/pkg/logger"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
)

type assignmentCreateRequest struct {
	LeadID     uuid.UUID `json:"lead_id" validate:"required"`
	ScheduleID uuid.UUID `json:"schedule_id" validate:"required"`
	AgentID    uuid.UUID `json:"agent_id" validate:"required"`
	Notes      *string   `json:"notes,omitempty"`
}

type assignmentStatusRequest struct {
	Status           string   `json:"status" validate:"required"`
	Reason           *string  `json:"reason,omitempty"`
	Notes            *string  `json:"notes,omitempty"`
	CompletionImages []string `json:"completion_images,omitempty" validate:"omitempty,dive,url"`
}

// AssignmentCreate books an agent onto a lead's schedule. Staff and admins
// only, agents never book themselves.
func AssignmentCreate(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if actor.Role == enums.SystemRoleAgent {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "agents cannot create assignments"))
			return
		}

		var body assignmentCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.Create(r.Context(), assignments.CreateInput{
			LeadID:     body.LeadID,
			ScheduleID: body.ScheduleID,
			AgentID:    body.AgentID,
			Notes:      body.Notes,
			AssignedBy: actor.UserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, assignment)
	}
}

// AssignmentUpdateStatus applies a lifecycle transition.
func AssignmentUpdateStatus(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignmentID, err := validators.ParsePathUUID(chi.URLParam(r, "assignmentId"), "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignmentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAssignmentStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		assignment, err := svc.UpdateStatus(r.Context(), assignments.StatusUpdateInput{
			AssignmentID:     assignmentID,
			NewStatus:        status,
			Actor:            actor,
			Reason:           body.Reason,
			Notes:            body.Notes,
			CompletionImages: body.CompletionImages,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentDetail fetches one assignment with ownership enforcement.
func AssignmentDetail(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignmentID, err := validators.ParsePathUUID(chi.URLParam(r, "assignmentId"), "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignment, err := svc.Get(r.Context(), assignmentID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, assignment)
	}
}

// AssignmentList pages assignments with optional filters. Agents are pinned
// to their own queue by the service.
func AssignmentList(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, filters, err := assignmentListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, filters, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items":       list.Items,
			"next_cursor": list.NextCursor,
		})
	}
}

// AssignmentTaskLogs returns the transition history for an assignment.
func AssignmentTaskLogs(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignmentID, err := validators.ParsePathUUID(chi.URLParam(r, "assignmentId"), "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logs, err := svc.ListTaskLogs(r.Context(), assignmentID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, logs)
	}
}

// AdminAssignmentDelete hard deletes an assignment outside the lifecycle.
func AdminAssignmentDelete(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		assignmentID, err := validators.ParsePathUUID(chi.URLParam(r, "assignmentId"), "assignmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), assignmentID, actor); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AgentMyAssignments is the agent-scoped queue shortcut.
func AgentMyAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}

		actor, err := actorFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if actor.AgentID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "agent profile required"))
			return
		}

		params, filters, err := assignmentListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.AgentID = actor.AgentID

		list, err := svc.List(r.Context(), params, filters, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items":       list.Items,
			"next_cursor": list.NextCursor,
		})
	}
}

func assignmentListQuery(r *http.Request) (pagination.Params, assignments.Filters, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, assignments.Filters{}, err
	}
	params := pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}

	filters := assignments.Filters{}
	agentID, err := validators.ParseQueryUUID(r, "agent_id")
	if err != nil {
		return pagination.Params{}, assignments.Filters{}, err
	}
	filters.AgentID = agentID

	leadID, err := validators.ParseQueryUUID(r, "lead_id")
	if err != nil {
		return pagination.Params{}, assignments.Filters{}, err
	}
	filters.LeadID = leadID

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := enums.ParseAssignmentStatus(raw)
		if err != nil {
			return pagination.Params{}, assignments.Filters{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filters.Status = &status
	}
	filters.ActiveOnly = r.URL.Query().Get("active") == "true"

	return params, filters, nil
}
