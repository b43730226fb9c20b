package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SaganOrg/command-center-sub001/internal/auth"
	"github.com/SaganOrg/command-center-sub001/internal/auth/provider"
	"github.com/SaganOrg/command-center-sub001/internal/profile"
	"github.com/SaganOrg/command-center-sub001/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodCode = "valid-code"

// stubProvider exchanges goodCode for a fixed identity and fails on
// anything else.
type stubProvider struct {
	identity auth.Identity
}

func (s *stubProvider) Name() string { return "google" }

func (s *stubProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://idp.example.com/auth?state=" + state
}

func (s *stubProvider) ExchangeCode(_ context.Context, code, _ string) (*auth.Identity, error) {
	if code != goodCode {
		return nil, errors.New("invalid authorization code")
	}
	id := s.identity
	return &id, nil
}

type callbackEnv struct {
	router   *gin.Engine
	sessions *session.MemoryStore
	profiles *profile.MemoryStore
}

func newCallbackEnv(t *testing.T, identity auth.Identity) *callbackEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewMemoryStore()
	profiles := profile.NewMemoryStore()

	h := NewHandler(
		provider.NewRegistry(&stubProvider{identity: identity}),
		sessions,
		profiles,
		nil, // credential flows not under test here
	)

	router := gin.New()
	h.RegisterRoutes(router)

	return &callbackEnv{router: router, sessions: sessions, profiles: profiles}
}

func (e *callbackEnv) callback(code string, withState, withPKCE bool) *httptest.ResponseRecorder {
	target := "/auth/callback/google?state=state-1"
	if code != "" {
		target += "&code=" + code
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if withState {
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "state-1"})
	}
	if withPKCE {
		req.AddCookie(&http.Cookie{Name: pkceCookieName, Value: "verifier-1"})
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestCallbackInvalidCodeRedirectsAuthFailed(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{})

	w := e.callback("bad-code", true, true)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error=auth_failed", w.Header().Get("Location"))
	assert.Equal(t, 0, e.profiles.Count(), "failed exchange must not create a profile")
}

func TestCallbackMissingStateRedirectsAuthFailed(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{})

	w := e.callback(goodCode, false, true)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error=auth_failed", w.Header().Get("Location"))
}

func TestCallbackMissingPKCERedirectsAuthFailed(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{})

	w := e.callback(goodCode, true, false)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error=auth_failed", w.Header().Get("Location"))
}

func TestCallbackProvisionsNewExecutiveApproved(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-123",
		Email:          "new@example.com",
		EmailVerified:  true,
	})

	w := e.callback(goodCode, true, true)

	assert.Equal(t, http.StatusFound, w.Code)
	// new executive without an assistant starts onboarding
	assert.Equal(t, "/settings", w.Header().Get("Location"))

	p, err := e.profiles.Get(context.Background(), "sub-123")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, profile.StatusApproved, p.Status)
	assert.Equal(t, profile.RoleExecutive, p.Role)
	assert.Equal(t, "new@example.com", p.Email)

	// a session cookie was issued and the session persisted
	var sid string
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid, "expected a session cookie")
	sess, err := e.sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "sub-123", sess.UserID)
}

func TestCallbackExecutiveWithAssistantLandsOnVoice(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-exec",
		Email:          "exec@example.com",
	})
	assistant := "sub-asst"
	e.profiles.Put(profile.Profile{
		ID:          "sub-exec",
		Email:       "exec@example.com",
		Role:        profile.RoleExecutive,
		Status:      profile.StatusApproved,
		AssistantID: &assistant,
	})

	w := e.callback(goodCode, true, true)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/voice", w.Header().Get("Location"))
}

func TestCallbackAssistantLandsOnProjects(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-asst",
		Email:          "asst@example.com",
	})
	e.profiles.Put(profile.Profile{
		ID:     "sub-asst",
		Email:  "asst@example.com",
		Role:   profile.RoleAssistant,
		Status: profile.StatusApproved,
	})

	w := e.callback(goodCode, true, true)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/projects", w.Header().Get("Location"))
}

func TestCallbackRejectedAccountSignsOut(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{
		Provider:       "google",
		ProviderUserID: "sub-rej",
		Email:          "rej@example.com",
	})
	e.profiles.Put(profile.Profile{
		ID:     "sub-rej",
		Email:  "rej@example.com",
		Role:   profile.RoleExecutive,
		Status: profile.StatusRejected,
	})

	w := e.callback(goodCode, true, true)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error=account_rejected", w.Header().Get("Location"))

	// no session may survive for a rejected account
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			assert.Empty(t, c.Value)
		}
	}
}

func TestCallbackProviderErrorParamRedirectsAuthFailed(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{})

	req := httptest.NewRequest(http.MethodGet,
		"/auth/callback/google?state=state-1&error=access_denied", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "state-1"})

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error=auth_failed", w.Header().Get("Location"))
	assert.Equal(t, 0, e.profiles.Count())
}

func TestLogoutIsIdempotent(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{})

	// logout with an active session
	sid, err := session.GenerateID()
	require.NoError(t, err)
	now := time.Now()
	require.NoError(t, e.sessions.Create(context.Background(), session.Session{
		SessionID:         sid,
		UserID:            "user-1",
		Email:             "u@example.com",
		CreatedAt:         now,
		ExpiresAt:         now.Add(session.IdleTTL),
		AbsoluteExpiresAt: now.Add(session.AbsoluteTTL),
	}))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	sess, err := e.sessions.Get(context.Background(), sid)
	require.NoError(t, err)
	assert.Nil(t, sess)

	// and again without any session
	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestOAuthLoginRedirectsToProvider(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{})

	req := httptest.NewRequest(http.MethodGet, "/auth/login/google", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://idp.example.com/auth")

	// state and PKCE cookies must be issued for the callback leg
	var names []string
	for _, c := range w.Result().Cookies() {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, stateCookieName)
	assert.Contains(t, names, pkceCookieName)
}

func TestOAuthLoginUnknownProvider(t *testing.T) {
	e := newCallbackEnv(t, auth.Identity{})

	req := httptest.NewRequest(http.MethodGet, "/auth/login/linkedin", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
