package policy

import (
	"testing"

	"github.com/SaganOrg/command-center-sub001/internal/profile"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Action
	}{
		{
			name: "callback path is never evaluated here",
			in:   Input{Path: "/auth/callback/google"},
			want: Action{Kind: Allow},
		},
		{
			name: "login page anonymous",
			in:   Input{Path: "/login"},
			want: Action{Kind: Allow},
		},
		{
			name: "login page with approved session passes through",
			in:   Input{Path: "/login", HasSession: true, Status: profile.StatusApproved},
			want: Action{Kind: Allow},
		},
		{
			name: "login page with pending session forces sign-out",
			in:   Input{Path: "/login", HasSession: true, Status: profile.StatusPending},
			want: Action{Kind: SignOutRedirect, Target: "/login?error=account_pending"},
		},
		{
			name: "login page with rejected session forces sign-out",
			in:   Input{Path: "/login", HasSession: true, Status: profile.StatusRejected},
			want: Action{Kind: SignOutRedirect, Target: "/login?error=account_pending"},
		},
		{
			name: "protected path anonymous redirects without reason",
			in:   Input{Path: "/dashboard"},
			want: Action{Kind: Redirect, Target: "/login"},
		},
		{
			name: "protected path pending forces sign-out",
			in:   Input{Path: "/reports", HasSession: true, Status: profile.StatusPending},
			want: Action{Kind: SignOutRedirect, Target: "/login?error=account_pending"},
		},
		{
			name: "protected path rejected forces sign-out",
			in:   Input{Path: "/admin", HasSession: true, Status: profile.StatusRejected},
			want: Action{Kind: SignOutRedirect, Target: "/login?error=account_pending"},
		},
		{
			name: "protected path approved executive allowed",
			in:   Input{Path: "/voice", HasSession: true, Status: profile.StatusApproved, Role: profile.RoleExecutive},
			want: Action{Kind: Allow},
		},
		{
			name: "protected path approved assistant allowed, role does not gate",
			in:   Input{Path: "/admin", HasSession: true, Status: profile.StatusApproved, Role: profile.RoleAssistant},
			want: Action{Kind: Allow},
		},
		{
			name: "prefix match covers nested protected paths",
			in:   Input{Path: "/dashboard/tasks/42"},
			want: Action{Kind: Redirect, Target: "/login"},
		},
		{
			name: "public route allowed unconditionally",
			in:   Input{Path: "/pricing"},
			want: Action{Kind: Allow},
		},
		{
			name: "root is public",
			in:   Input{Path: "/"},
			want: Action{Kind: Allow},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.in))
		})
	}
}

func TestLandingTarget(t *testing.T) {
	assert.Equal(t, "/settings", LandingTarget(profile.RoleExecutive, nil))
	assert.Equal(t, "/voice", LandingTarget(profile.RoleExecutive, strPtr("assistant-1")))
	assert.Equal(t, "/settings", LandingTarget(profile.RoleExecutive, strPtr("")))
	assert.Equal(t, "/projects", LandingTarget(profile.RoleAssistant, nil))
	assert.Equal(t, "/projects", LandingTarget(profile.RoleAdmin, strPtr("x")))
}

func TestPathClassification(t *testing.T) {
	assert.True(t, IsProtected("/attachments/abc.png"))
	assert.True(t, IsProtected("/settings"))
	assert.False(t, IsProtected("/login"))
	assert.False(t, IsProtected("/auth/callback/google"))
	assert.True(t, IsCallback("/auth/callback/google"))
	assert.True(t, IsLogin("/login"))
	assert.False(t, IsLogin("/login/other"))
}
