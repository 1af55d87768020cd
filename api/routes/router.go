package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tidyops/tidyops-backend/api/controllers"
	"github.com/tidyops/tidyops-backend/api/middleware"
	"github.com/tidyops/tidyops-backend/internal/agents"
	"github.com/tidyops/tidyops-backend/internal/assignments"
	"github.com/tidyops/tidyops-backend/internal/auth"
	"github.com/tidyops/tidyops-backend/internal/eligibility"
	"github.com/tidyops/tidyops-backend/internal/leads"
	"github.com/tidyops/tidyops-backend/pkg/auth/session"
	"github.com/tidyops/tidyops-backend/pkg/config"
	"github.com/tidyops/tidyops-backend/pkg/db"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	"github.com/tidyops/tidyops-backend/pkg/logger"
	"github.com/tidyops/tidyops-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisClient     *redis.Client
	SessionChecker  session.AccessSessionChecker
	MetricsGatherer prometheus.Gatherer

	AuthService        auth.Service
	LeadService        leads.Service
	AgentService       agents.Service
	AssignmentService  assignments.Service
	EligibilityService eligibility.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisClient))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.Idempotency(deps.RedisClient, logg))

		r.Route("/v1/leads", func(r chi.Router) {
			r.Get("/", controllers.LeadList(deps.LeadService, logg))
			r.Post("/", controllers.LeadCreate(deps.LeadService, logg))
			r.Get("/{leadId}", controllers.LeadDetail(deps.LeadService, logg))
			r.Patch("/{leadId}", controllers.LeadUpdate(deps.LeadService, logg))
			r.Post("/{leadId}/schedule", controllers.LeadSchedule(deps.LeadService, logg))
		})

		r.Get("/v1/schedules/{scheduleId}/eligible-agents", controllers.EligibleAgents(deps.EligibilityService, logg))

		r.Route("/v1/assignments", func(r chi.Router) {
			r.Get("/", controllers.AssignmentList(deps.AssignmentService, logg))
			r.Post("/", controllers.AssignmentCreate(deps.AssignmentService, logg))
			r.Get("/{assignmentId}", controllers.AssignmentDetail(deps.AssignmentService, logg))
			r.Post("/{assignmentId}/status", controllers.AssignmentUpdateStatus(deps.AssignmentService, logg))
			r.Get("/{assignmentId}/task-logs", controllers.AssignmentTaskLogs(deps.AssignmentService, logg))
		})

		r.Route("/v1/agents", func(r chi.Router) {
			r.Get("/", controllers.AgentList(deps.AgentService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.SystemRoleAgent.String(), logg))
				r.Patch("/me/availability", controllers.AgentUpdateAvailability(deps.AgentService, logg))
				r.Get("/me/assignments", controllers.AgentMyAssignments(deps.AssignmentService, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireRole(enums.SystemRoleAdmin.String(), logg))
		r.Use(middleware.Idempotency(deps.RedisClient, logg))

		r.Patch("/v1/agents/{agentId}", controllers.AdminAgentPatch(deps.AgentService, logg))
		r.Delete("/v1/assignments/{assignmentId}", controllers.AdminAssignmentDelete(deps.AssignmentService, logg))
	})

	return r
}
