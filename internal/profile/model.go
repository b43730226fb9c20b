package profile

import "time"

type Role string

const (
	RoleExecutive Role = "executive"
	RoleAssistant Role = "assistant"
	RoleAdmin     Role = "admin"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Profile is the application-level user record. ID equals the external
// identity's stable subject (OAuth sub, or a generated UUID for form
// signup) and never changes. Status, role, and assistant linkage are
// mutated by flows outside this core; here they are only read.
type Profile struct {
	ID          string
	Email       string
	Role        Role
	Status      Status
	AssistantID *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
