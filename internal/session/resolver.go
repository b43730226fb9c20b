package session

import (
	"net/http"
	"time"

	"github.com/SaganOrg/command-center-sub001/internal/logger"
)

const (
	// IdleTTL is how long a session survives without activity.
	IdleTTL = 24 * time.Hour

	// AbsoluteTTL caps a session's total lifetime regardless of activity.
	AbsoluteTTL = 7 * 24 * time.Hour

	// refreshWindow: sessions with less idle time than this remaining
	// get their expiry slid forward and the cookie rewritten.
	refreshWindow = 12 * time.Hour
)

// Resolver turns inbound request cookies into the current session.
// A nil session with a nil error means "anonymous visitor". An error
// means the store could not be reached; callers must treat that the
// same as anonymous for authorization, but may log it distinctly.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve reads the session cookie, loads the session, and enforces
// expiry. As a side effect it may slide the idle expiry forward and
// rewrite the cookie on w; a failed refresh write never aborts the
// request.
func (r *Resolver) Resolve(w http.ResponseWriter, req *http.Request) (*Session, error) {
	cookie, err := req.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil // anonymous
	}

	sess, err := r.store.Get(req.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	now := time.Now()
	if now.After(sess.ExpiresAt) || now.After(sess.AbsoluteExpiresAt) {
		_ = r.store.Delete(req.Context(), sess.SessionID)
		return nil, nil
	}

	if sess.ExpiresAt.Sub(now) < refreshWindow {
		next := now.Add(IdleTTL)
		if next.After(sess.AbsoluteExpiresAt) {
			next = sess.AbsoluteExpiresAt
		}
		if next.After(sess.ExpiresAt) {
			sess.ExpiresAt = next
			if err := r.store.Update(req.Context(), *sess); err != nil {
				logger.Warn("session refresh write failed", map[string]any{
					"error": err.Error(),
				})
			} else {
				SetCookie(w, sess.SessionID, next, CookieOptions{
					Secure:   true,
					SameSite: http.SameSiteLaxMode,
				})
			}
		}
	}

	return sess, nil
}

// SignOut deletes the current session (best-effort) and clears the
// cookie. It is idempotent and safe to call without a session.
func (r *Resolver) SignOut(w http.ResponseWriter, req *http.Request) {
	cookie, err := req.Cookie(CookieName)
	if err == nil && cookie.Value != "" {
		_ = r.store.Delete(req.Context(), cookie.Value)
	}

	ClearCookie(w, CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
