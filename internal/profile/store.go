package profile

import "context"

// Defaults is a provisioning policy applied when a profile is created.
// Two policies exist on purpose: an interactively completed
// authentication (form signup, OAuth round-trip) yields an approved
// account, while passively observing an unknown identity mid-request
// yields a pending one that the access policy then blocks.
type Defaults struct {
	Role   Role
	Status Status
}

var (
	SignupDefaults = Defaults{Role: RoleExecutive, Status: StatusApproved}
	LazyDefaults   = Defaults{Role: RoleExecutive, Status: StatusPending}
)

// Store defines read and create access to user profiles.
//
// Get returns (nil, nil) when no row exists; a non-nil error means the
// store could not be reached and MUST NOT be treated as "approved".
//
// GetOrCreate is idempotent: concurrent calls for the same new id must
// converge on a single row, with created reported true by at most one
// caller.
type Store interface {
	Get(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	GetOrCreate(ctx context.Context, id, email string, d Defaults) (p *Profile, created bool, err error)
}
