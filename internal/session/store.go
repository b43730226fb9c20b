package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session.
// It stores identity pointers only; account state (status, role) is
// always re-read from the profile store on each navigation.
type Session struct {
	SessionID         string    // unique session identifier
	UserID            string    // references user_profiles.id
	Email             string    // identity email, used for lazy profile creation
	CreatedAt         time.Time
	ExpiresAt         time.Time // idle expiry, slides forward on activity
	AbsoluteExpiresAt time.Time // hard cap, never extended
}

// Store defines how sessions are stored and retrieved.
// Implementations must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
