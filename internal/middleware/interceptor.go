package middleware

import (
	"context"
	"net/http"

	"github.com/SaganOrg/command-center-sub001/internal/logger"
	"github.com/SaganOrg/command-center-sub001/internal/policy"
	"github.com/SaganOrg/command-center-sub001/internal/profile"
	"github.com/SaganOrg/command-center-sub001/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Interceptor runs once per navigation: resolve session, look up (or
// lazily create) the profile, evaluate the access policy, apply the
// verdict. Every request terminates in a response; store failures
// become redirects, never crashes.
type Interceptor struct {
	Sessions *session.Resolver
	Profiles profile.Store
}

func NewInterceptor(sessions *session.Resolver, profiles profile.Store) *Interceptor {
	return &Interceptor{
		Sessions: sessions,
		Profiles: profiles,
	}
}

func (i *Interceptor) Intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// public routes (including the OAuth callback) bypass evaluation
		if !policy.IsLogin(path) && !policy.IsProtected(path) {
			next.ServeHTTP(w, r)
			return
		}

		// 1. Resolve session. Store failure downgrades to anonymous;
		// the cookie refresh side effect lands on w either way.
		sess, err := i.Sessions.Resolve(w, r)
		if err != nil {
			logger.Warn("session lookup failed, treating as anonymous", map[string]any{
				"path":  path,
				"error": err.Error(),
			})
			sess = nil
		}

		in := policy.Input{Path: path}

		if sess != nil {
			// 2. Look up or lazily create the profile. A profile row
			// must exist before any protected route is served.
			p, created, err := i.Profiles.GetOrCreate(
				r.Context(),
				sess.UserID,
				sess.Email,
				profile.LazyDefaults,
			)
			if err != nil {
				logger.Error("profile lookup failed", map[string]any{
					"user_id": sess.UserID,
					"error":   err.Error(),
				})
				http.Redirect(w, r, policy.LoginRedirect(policy.ReasonUserNotFound), http.StatusFound)
				return
			}

			if created {
				logger.Info("profile created on first sight", map[string]any{
					"user_id": sess.UserID,
					"status":  string(p.Status),
				})
				// First sighting on the login page lands on /settings
				// once, to start onboarding. On protected paths the
				// pending rule below applies instead.
				if policy.IsLogin(path) {
					http.Redirect(w, r, policy.SettingsPath, http.StatusFound)
					return
				}
			}

			in.HasSession = true
			in.Status = p.Status
			in.Role = p.Role
			in.AssistantID = p.AssistantID
		}

		// 3. Evaluate and apply.
		switch act := policy.Evaluate(in); act.Kind {
		case policy.Allow:
			if sess != nil {
				ctx := context.WithValue(r.Context(), userIDKey, sess.UserID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)

		case policy.Redirect:
			http.Redirect(w, r, act.Target, http.StatusFound)

		case policy.SignOutRedirect:
			i.Sessions.SignOut(w, r)
			http.Redirect(w, r, act.Target, http.StatusFound)
		}
	})
}
