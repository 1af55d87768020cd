package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/tidyops/tidyops-backend/internal/agents"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
)

type stubAgentService struct {
	agent            *models.Agent
	list             *agents.List
	err              error
	lastAvailability *agents.AvailabilityInput
	lastPatch        *agents.AdminPatchInput
	lastPatchID      uuid.UUID
}

func (s *stubAgentService) Get(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	return s.agent, s.err
}

func (s *stubAgentService) List(ctx context.Context, params pagination.Params, filters agents.Filters) (*agents.List, error) {
	return s.list, s.err
}

func (s *stubAgentService) UpdateAvailability(ctx context.Context, agentID uuid.UUID, input agents.AvailabilityInput) (*models.Agent, error) {
	s.lastAvailability = &input
	return s.agent, s.err
}

func (s *stubAgentService) AdminPatch(ctx context.Context, agentID uuid.UUID, input agents.AdminPatchInput, actorUserID uuid.UUID) (*models.Agent, error) {
	s.lastPatchID = agentID
	s.lastPatch = &input
	return s.agent, s.err
}

func TestAgentUpdateAvailabilityEndpoint(t *testing.T) {
	agentID := uuid.New()
	agent := &models.Agent{ID: agentID, Availability: enums.AgentOffDuty}
	svc := &stubAgentService{agent: agent}
	handler := AgentUpdateAvailability(svc, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/agents/me/availability",
		bytes.NewReader([]byte(`{"availability":"off_duty"}`)))
	req = authedRequest(req, "agent", &agentID)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastAvailability == nil || svc.lastAvailability.Availability != "off_duty" {
		t.Fatalf("expected availability forwarded, got %+v", svc.lastAvailability)
	}
}

func TestAgentUpdateAvailabilityNeedsAgentProfile(t *testing.T) {
	handler := AgentUpdateAvailability(&stubAgentService{}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/agents/me/availability",
		bytes.NewReader([]byte(`{"availability":"available"}`)))
	req = authedRequest(req, "staff", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminAgentPatchEndpoint(t *testing.T) {
	agentID := uuid.New()
	agent := &models.Agent{ID: agentID, DailyCapacity: 3}
	svc := &stubAgentService{agent: agent}
	handler := AdminAgentPatch(svc, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/agents/"+agentID.String(),
		bytes.NewReader([]byte(`{"daily_capacity":3}`)))
	req = authedRequest(req, "admin", nil)
	req = withRouteParam(req, "agentId", agentID.String())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
	if svc.lastPatchID != agentID {
		t.Fatal("expected agent id forwarded")
	}
	if svc.lastPatch == nil || svc.lastPatch.DailyCapacity == nil || *svc.lastPatch.DailyCapacity != 3 {
		t.Fatalf("expected capacity forwarded, got %+v", svc.lastPatch)
	}
}

func TestAdminAgentPatchBadID(t *testing.T) {
	handler := AdminAgentPatch(&stubAgentService{}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/agents/nope",
		bytes.NewReader([]byte(`{}`)))
	req = authedRequest(req, "admin", nil)
	req = withRouteParam(req, "agentId", "nope")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
