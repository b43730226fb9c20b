package handler

import (
	"net/http"

	"github.com/SaganOrg/command-center-sub001/internal/policy"
	"github.com/SaganOrg/command-center-sub001/internal/profile"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := h.credentialService.Authenticate(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	prof, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil || prof == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if prof.Status == profile.StatusRejected {
		c.JSON(http.StatusForbidden, gin.H{"error": policy.ReasonAccountRejected})
		return
	}

	if err := h.createSession(c, prof.ID, prof.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "logged_in",
		"redirect": policy.LandingTarget(prof.Role, prof.AssistantID),
	})
}
