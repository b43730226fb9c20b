package policy

import "strings"

const (
	LoginPath      = "/login"
	CallbackPrefix = "/auth/callback"

	// Post-auth landing targets.
	SettingsPath = "/settings"
	VoicePath    = "/voice"
	ProjectsPath = "/projects"
)

// protectedPrefixes is the set of URL prefixes requiring an approved,
// authenticated session. Matching is by prefix: /dashboard/tasks is
// protected because /dashboard is.
var protectedPrefixes = []string{
	"/dashboard",
	"/profile",
	"/voice",
	"/projects",
	"/settings",
	"/admin",
	"/reports",
	"/attachments",
}

func IsLogin(path string) bool {
	return path == LoginPath
}

func IsCallback(path string) bool {
	return strings.HasPrefix(path, CallbackPrefix)
}

func IsProtected(path string) bool {
	for _, prefix := range protectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Reason codes surfaced to the login page as ?error=<reason>.
const (
	ReasonAuthFailed      = "auth_failed"
	ReasonAccountRejected = "account_rejected"
	ReasonAccountPending  = "account_pending"
	ReasonUserNotFound    = "user_not_found"
)

// LoginRedirect builds the login redirect target, with an optional
// reason code for the login page to display.
func LoginRedirect(reason string) string {
	if reason == "" {
		return LoginPath
	}
	return LoginPath + "?error=" + reason
}
