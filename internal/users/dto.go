package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/tidyops/tidyops-backend/pkg/db/models"
	"github.com/tidyops/tidyops-backend/pkg/enums"
)

// Summary is the public shape of a user account.
type Summary struct {
	ID          uuid.UUID        `json:"id"`
	Email       string           `json:"email"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Phone       *string          `json:"phone,omitempty"`
	Role        enums.SystemRole `json:"role"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
}

// FromModel maps a user row into its public summary.
func FromModel(user *models.User) Summary {
	return Summary{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Phone:       user.Phone,
		Role:        user.SystemRole,
		LastLoginAt: user.LastLoginAt,
	}
}
