package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/api/middleware"
	"github.com/tidyops/tidyops-backend/internal/assignments"
	"github.com/tidyops/tidyops-backend/pkg/enums"
	pkgerrors "github.com/tidyops/tidyops-backend/pkg/errors"
)

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

// actorFromRequest rebuilds the acting identity from the auth middleware
// context.
func actorFromRequest(r *http.Request) (assignments.Actor, error) {
	ctx := r.Context()

	rawUserID := middleware.UserIDFromContext(ctx)
	if rawUserID == "" {
		return assignments.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return assignments.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}

	role, err := enums.ParseSystemRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return assignments.Actor{}, pkgerrors.New(pkgerrors.CodeForbidden, "unknown actor role")
	}

	actor := assignments.Actor{UserID: userID, Role: role}
	if raw := middleware.AgentIDFromContext(ctx); raw != "" {
		agentID, err := uuid.Parse(raw)
		if err != nil {
			return assignments.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid agent id")
		}
		actor.AgentID = &agentID
	}
	return actor, nil
}
