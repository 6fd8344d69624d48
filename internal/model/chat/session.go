package chat

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies one console run against the analysis backend.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewSession mints a session with a random (v4) identifier.
func NewSession() Session {
	return Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}
