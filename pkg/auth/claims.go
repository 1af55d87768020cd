package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID  uuid.UUID
	AgentID *uuid.UUID
	Role    enums.SystemRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID  uuid.UUID        `json:"user_id"`
	AgentID *uuid.UUID       `json:"agent_id,omitempty"`
	Role    enums.SystemRole `json:"role"`
	jwt.RegisteredClaims
}
