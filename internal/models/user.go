package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system. Users are created on first login
// and never deleted by the API itself; removing one (via the admin CLI)
// cascades to their decisions.
type User struct {
	ID          uuid.UUID `json:"id"`
	ProviderID  string    `json:"provider_id"`
	Email       string    `json:"email"`
	Name        *string   `json:"name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}
