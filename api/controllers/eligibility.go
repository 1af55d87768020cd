package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tidyops/tidyops-backend/api/responses"
	"github.com/tidyops/tidyops-backend/api/validators"
	"github.com/tidyops/tidyops-backend/internal/eligibility"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
	"github.com/tidyops/tidyops-backend/pkg/logger"
)

// EligibleAgents lists the agent IDs bookable for a schedule.
func EligibleAgents(svc eligibility.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "eligibility service unavailable"))
			return
		}

		scheduleID, err := validators.ParsePathUUID(chi.URLParam(r, "scheduleId"), "scheduleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentIDs, err := svc.EligibleAgents(r.Context(), scheduleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"agent_ids": agentIDs})
	}
}
