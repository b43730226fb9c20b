package policy

import (
	"github.com/SaganOrg/command-center-sub001/internal/profile"
)

// Input carries the facts the evaluator decides on. Status, Role, and
// AssistantID are meaningful only when HasSession is true.
type Input struct {
	HasSession  bool
	Status      profile.Status
	Role        profile.Role
	AssistantID *string
	Path        string
}

type ActionKind int

const (
	Allow ActionKind = iota
	Redirect
	SignOutRedirect
)

// Action is the evaluator's verdict. Target is set for the redirect
// kinds only.
type Action struct {
	Kind   ActionKind
	Target string
}

func allow() Action                 { return Action{Kind: Allow} }
func redirect(target string) Action { return Action{Kind: Redirect, Target: target} }
func signOut(target string) Action  { return Action{Kind: SignOutRedirect, Target: target} }

// Evaluate is the access decision function. Pure: no I/O, no clock.
// First match wins.
//
// Access is gated on session presence and account status only. Role
// deliberately does not restrict paths here; it only steers the
// post-callback landing redirect (see the auth handler).
func Evaluate(in Input) Action {
	blocked := in.Status == profile.StatusPending || in.Status == profile.StatusRejected

	switch {
	case IsCallback(in.Path):
		// the callback handler owns this flow
		return allow()

	case IsLogin(in.Path):
		if !in.HasSession {
			return allow()
		}
		if blocked {
			return signOut(LoginRedirect(ReasonAccountPending))
		}
		return allow()

	case IsProtected(in.Path):
		if !in.HasSession {
			return redirect(LoginRedirect(""))
		}
		if blocked {
			return signOut(LoginRedirect(ReasonAccountPending))
		}
		return allow()

	default:
		// public route
		return allow()
	}
}

// LandingTarget picks the post-login destination by role: executives
// go to /voice once an assistant is linked, otherwise to /settings to
// start onboarding; everyone else goes to /projects.
func LandingTarget(role profile.Role, assistantID *string) string {
	if role == profile.RoleExecutive {
		if assistantID != nil && *assistantID != "" {
			return VoicePath
		}
		return SettingsPath
	}
	return ProjectsPath
}
