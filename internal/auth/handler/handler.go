package handler

import (
	"net/http"
	"time"

	"github.com/SaganOrg/command-center-sub001/internal/auth/credentials"
	"github.com/SaganOrg/command-center-sub001/internal/auth/provider"
	"github.com/SaganOrg/command-center-sub001/internal/logger"
	"github.com/SaganOrg/command-center-sub001/internal/policy"
	"github.com/SaganOrg/command-center-sub001/internal/profile"
	"github.com/SaganOrg/command-center-sub001/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	providers         *provider.Registry
	sessionStore      session.Store
	profiles          profile.Store
	credentialService *credentials.Service
}

func NewHandler(
	registry *provider.Registry,
	sessionStore session.Store,
	profiles profile.Store,
	credentialService *credentials.Service,
) *Handler {
	return &Handler{
		providers:         registry,
		sessionStore:      sessionStore,
		profiles:          profiles,
		credentialService: credentialService,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/login/:provider", h.oauthLogin)
	r.GET("/auth/callback/:provider", h.callback)
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
}

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	authURL := p.AuthCodeURL(state, codeChallenge)
	c.Redirect(http.StatusFound, authURL)
}

// callback completes the OAuth round-trip: exchange the one-time code,
// provision the profile if this identity is new, then redirect by role.
// Every failure ends in a redirect to the login page with a reason
// code; nothing here returns an error body.
func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.Redirect(http.StatusFound, policy.LoginRedirect(policy.ReasonAuthFailed))
		return
	}

	if !validateState(c) {
		logger.Warn("oauth callback state mismatch", map[string]any{
			"provider": providerName,
		})
		c.Redirect(http.StatusFound, policy.LoginRedirect(policy.ReasonAuthFailed))
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, policy.LoginRedirect(policy.ReasonAuthFailed))
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.Redirect(http.StatusFound, policy.LoginRedirect(policy.ReasonAuthFailed))
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.Redirect(http.StatusFound, policy.LoginRedirect(policy.ReasonAuthFailed))
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		logger.Warn("oauth code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.Redirect(http.StatusFound, policy.LoginRedirect(policy.ReasonAuthFailed))
		return
	}

	// Provision: a completed OAuth round-trip is an interactive signup,
	// so new identities are created approved.
	prof, created, err := h.profiles.GetOrCreate(
		c.Request.Context(),
		identity.ProviderUserID,
		identity.Email,
		profile.SignupDefaults,
	)
	if err != nil {
		logger.Error("profile provisioning failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		h.signOutRedirect(c, policy.ReasonAccountPending)
		return
	}

	if prof.Status == profile.StatusRejected {
		h.signOutRedirect(c, policy.ReasonAccountRejected)
		return
	}

	if err := h.createSession(c, prof.ID, prof.Email); err != nil {
		logger.Error("session creation failed", map[string]any{
			"user_id": prof.ID,
			"error":   err.Error(),
		})
		h.signOutRedirect(c, policy.ReasonAccountPending)
		return
	}

	logger.Info("oauth login complete", map[string]any{
		"provider": providerName,
		"user_id":  prof.ID,
		"created":  created,
	})

	c.Redirect(http.StatusFound, policy.LandingTarget(prof.Role, prof.AssistantID))
}

func (h *Handler) Logout(c *gin.Context) {
	// 1. Read session cookie (same pattern as the interceptor)
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		// 2. Delete session from store (best-effort)
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	// 3. Clear cookie (must pass options)
	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	// 4. Idempotent response
	c.Status(http.StatusNoContent)
}

// createSession persists a new session and issues its cookie.
func (h *Handler) createSession(c *gin.Context, userID, email string) error {
	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	sess := session.Session{
		SessionID:         sessionID,
		UserID:            userID,
		Email:             email,
		CreatedAt:         now,
		ExpiresAt:         now.Add(session.IdleTTL),
		AbsoluteExpiresAt: now.Add(session.AbsoluteTTL),
	}

	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, sess.ExpiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// signOutRedirect drops any session named by the cookie, clears it,
// and sends the user to the login page with a reason code.
func (h *Handler) signOutRedirect(c *gin.Context, reason string) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		_ = h.sessionStore.Delete(c.Request.Context(), cookie.Value)
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, policy.LoginRedirect(reason))
}
