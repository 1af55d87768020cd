package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tidyops/tidyops-backend/api/middleware"
	"github.com/tidyops/tidyops-backend/internal/assignments"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
)

type stubAssignmentService struct {
	assignment  *models.Assignment
	list        *assignments.List
	taskLogs    []models.TaskLog
	err         error
	lastCreate  *assignments.CreateInput
	lastStatus  *assignments.StatusUpdateInput
	lastFilters assignments.Filters
	deleted     []uuid.UUID
}

func (s *stubAssignmentService) Create(ctx context.Context, input assignments.CreateInput) (*models.Assignment, error) {
	s.lastCreate = &input
	return s.assignment, s.err
}

func (s *stubAssignmentService) UpdateStatus(ctx context.Context, input assignments.StatusUpdateInput) (*models.Assignment, error) {
	s.lastStatus = &input
	return s.assignment, s.err
}

func (s *stubAssignmentService) Get(ctx context.Context, id uuid.UUID, actor assignments.Actor) (*models.Assignment, error) {
	return s.assignment, s.err
}

func (s *stubAssignmentService) List(ctx context.Context, params pagination.Params, filters assignments.Filters, actor assignments.Actor) (*assignments.List, error) {
	s.lastFilters = filters
	return s.list, s.err
}

func (s *stubAssignmentService) ListTaskLogs(ctx context.Context, assignmentID uuid.UUID, actor assignments.Actor) ([]models.TaskLog, error) {
	return s.taskLogs, s.err
}

func (s *stubAssignmentService) Delete(ctx context.Context, id uuid.UUID, actor assignments.Actor) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func authedRequest(req *http.Request, role string, agentID *uuid.UUID) *http.Request {
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	ctx = middleware.WithRole(ctx, role)
	if agentID != nil {
		ctx = middleware.WithAgentID(ctx, agentID.String())
	}
	return req.WithContext(ctx)
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestAssignmentCreateSuccess(t *testing.T) {
	assignment := &models.Assignment{ID: uuid.New(), Status: enums.AssignmentStatusPending}
	svc := &stubAssignmentService{assignment: assignment}
	handler := AssignmentCreate(svc, nil)

	payload := map[string]string{
		"lead_id":     uuid.NewString(),
		"schedule_id": uuid.NewString(),
		"agent_id":    uuid.NewString(),
	}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req = authedRequest(req, "staff", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastCreate == nil || svc.lastCreate.AgentID.String() != payload["agent_id"] {
		t.Fatalf("expected create input forwarded, got %+v", svc.lastCreate)
	}
}

func TestAssignmentCreateRejectsAgents(t *testing.T) {
	agentID := uuid.New()
	handler := AssignmentCreate(&stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", bytes.NewReader([]byte(`{}`)))
	req = authedRequest(req, "agent", &agentID)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAssignmentCreateInvalidPayload(t *testing.T) {
	handler := AssignmentCreate(&stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", bytes.NewReader([]byte(`{"lead_id":"not-a-uuid"}`)))
	req = authedRequest(req, "staff", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAssignmentCreateSurfacesBufferConflict(t *testing.T) {
	svc := &stubAssignmentService{err: pkgerrors.New(pkgerrors.CodeBufferConflict, "agent has a same-day assignment within the travel buffer")}
	handler := AssignmentCreate(svc, nil)

	payload := map[string]string{
		"lead_id":     uuid.NewString(),
		"schedule_id": uuid.NewString(),
		"agent_id":    uuid.NewString(),
	}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments", bytes.NewReader(raw))
	req = authedRequest(req, "admin", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "BUFFER_CONFLICT" {
		t.Fatalf("expected BUFFER_CONFLICT got %s", envelope.Error.Code)
	}
}

func TestAssignmentUpdateStatus(t *testing.T) {
	agentID := uuid.New()
	assignment := &models.Assignment{ID: uuid.New(), Status: enums.AssignmentStatusInProgress}
	svc := &stubAssignmentService{assignment: assignment}
	handler := AssignmentUpdateStatus(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/"+assignment.ID.String()+"/status",
		bytes.NewReader([]byte(`{"status":"in_progress"}`)))
	req = authedRequest(req, "agent", &agentID)
	req = withRouteParam(req, "assignmentId", assignment.ID.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastStatus == nil || svc.lastStatus.NewStatus != enums.AssignmentStatusInProgress {
		t.Fatalf("expected in_progress forwarded, got %+v", svc.lastStatus)
	}
	if svc.lastStatus.Actor.AgentID == nil || *svc.lastStatus.Actor.AgentID != agentID {
		t.Fatal("expected the actor agent id forwarded")
	}
}

func TestAssignmentUpdateStatusUnknownValue(t *testing.T) {
	handler := AssignmentUpdateStatus(&stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/x/status",
		bytes.NewReader([]byte(`{"status":"paused"}`)))
	req = authedRequest(req, "admin", nil)
	req = withRouteParam(req, "assignmentId", uuid.NewString())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAssignmentListForwardsFilters(t *testing.T) {
	svc := &stubAssignmentService{list: &assignments.List{Items: []models.Assignment{}}}
	handler := AssignmentList(svc, nil)

	agentID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments?agent_id="+agentID.String()+"&status=pending&active=true", nil)
	req = authedRequest(req, "staff", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastFilters.AgentID == nil || *svc.lastFilters.AgentID != agentID {
		t.Fatal("expected agent filter forwarded")
	}
	if svc.lastFilters.Status == nil || *svc.lastFilters.Status != enums.AssignmentStatusPending {
		t.Fatal("expected status filter forwarded")
	}
	if !svc.lastFilters.ActiveOnly {
		t.Fatal("expected active filter forwarded")
	}
}

func TestAgentMyAssignmentsRequiresProfile(t *testing.T) {
	handler := AgentMyAssignments(&stubAssignmentService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents/me/assignments", nil)
	req = authedRequest(req, "agent", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminAssignmentDelete(t *testing.T) {
	svc := &stubAssignmentService{}
	handler := AdminAssignmentDelete(svc, nil)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/assignments/"+id.String(), nil)
	req = authedRequest(req, "admin", nil)
	req = withRouteParam(req, "assignmentId", id.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != id {
		t.Fatalf("expected delete forwarded, got %v", svc.deleted)
	}
}
