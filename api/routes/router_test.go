package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tidyops/tidyops-backend/internal/agents"
	"github.com/tidyops/tidyops-backend/internal/assignments"
	"github.com/tidyops/tidyops-backend/internal/auth"
	"github.com/tidyops/tidyops-backend/internal/leads"
	pkgAuth "github.com/tidyops/tidyops-backend/pkg/auth"
	"github.com/tidyops/tidyops-backend/pkg/config"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	"github.com/tidyops/tidyops-backend/pkg/logger"
	"github.com/tidyops/tidyops-backend/pkg/pagination"
	"github.com/tidyops/tidyops-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	panic("unimplemented")
}

type stubLeadService struct{}

func (stubLeadService) Create(ctx context.Context, input leads.CreateInput, actorUserID uuid.UUID) (*models.Lead, error) {
	panic("unimplemented")
}

func (stubLeadService) Get(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	panic("unimplemented")
}

func (stubLeadService) List(ctx context.Context, params pagination.Params, filters leads.Filters) (*leads.List, error) {
	return &leads.List{}, nil
}

func (stubLeadService) Update(ctx context.Context, id uuid.UUID, input leads.UpdateInput) (*models.Lead, error) {
	panic("unimplemented")
}

func (stubLeadService) Schedule(ctx context.Context, leadID uuid.UUID, input leads.ScheduleInput, actorUserID uuid.UUID) (*models.Schedule, error) {
	panic("unimplemented")
}

type stubAgentService struct{}

func (stubAgentService) Get(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	panic("unimplemented")
}

func (stubAgentService) List(ctx context.Context, params pagination.Params, filters agents.Filters) (*agents.List, error) {
	return &agents.List{}, nil
}

func (stubAgentService) UpdateAvailability(ctx context.Context, agentID uuid.UUID, input agents.AvailabilityInput) (*models.Agent, error) {
	panic("unimplemented")
}

func (stubAgentService) AdminPatch(ctx context.Context, agentID uuid.UUID, input agents.AdminPatchInput, actorUserID uuid.UUID) (*models.Agent, error) {
	return &models.Agent{ID: agentID}, nil
}

type stubAssignmentService struct{}

func (stubAssignmentService) Create(ctx context.Context, input assignments.CreateInput) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) UpdateStatus(ctx context.Context, input assignments.StatusUpdateInput) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) Get(ctx context.Context, id uuid.UUID, actor assignments.Actor) (*models.Assignment, error) {
	panic("unimplemented")
}

func (stubAssignmentService) List(ctx context.Context, params pagination.Params, filters assignments.Filters, actor assignments.Actor) (*assignments.List, error) {
	return &assignments.List{}, nil
}

func (stubAssignmentService) ListTaskLogs(ctx context.Context, assignmentID uuid.UUID, actor assignments.Actor) ([]models.TaskLog, error) {
	panic("unimplemented")
}

func (stubAssignmentService) Delete(ctx context.Context, id uuid.UUID, actor assignments.Actor) error {
	panic("unimplemented")
}

type stubEligibilityService struct{}

func (stubEligibilityService) EligibleAgents(ctx context.Context, scheduleID uuid.UUID) ([]uuid.UUID, error) {
	return []uuid.UUID{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		DBPinger:       stubPinger{},
		RedisClient:    (*redis.Client)(nil),
		SessionChecker: stubSessionChecker{},

		AuthService:        stubAuthService{},
		LeadService:        stubLeadService{},
		AgentService:       stubAgentService{},
		AssignmentService:  stubAssignmentService{},
		EligibilityService: stubEligibilityService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.SystemRole, agentID *uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:  uuid.New(),
		AgentID: agentID,
		Role:    role,
		JTI:     uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/assignments", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleStaff, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/admin/v1/agents/" + uuid.NewString()

	nonAdmin := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(`{}`))
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleStaff, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(`{}`))
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleAdmin, nil))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestAgentGroupRequiresAgentRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	agentID := uuid.New()

	nonAgent := httptest.NewRequest(http.MethodGet, "/api/v1/agents/me/assignments", nil)
	nonAgent.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleStaff, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAgent)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-agent got %d", resp.Code)
	}

	agent := httptest.NewRequest(http.MethodGet, "/api/v1/agents/me/assignments", nil)
	agent.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.SystemRoleAgent, &agentID))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, agent)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for agent got %d body %s", resp.Code, resp.Body.String())
	}
}
