package handler

import (
	"net/http"

	"github.com/SaganOrg/command-center-sub001/internal/auth/credentials"
	"github.com/SaganOrg/command-center-sub001/internal/policy"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID, err := h.credentialService.Register(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		switch err {
		case credentials.ErrAlreadyRegistered:
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	prof, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil || prof == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account error"})
		return
	}

	if err := h.createSession(c, prof.ID, prof.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "registered",
		"redirect": policy.LandingTarget(prof.Role, prof.AssistantID),
	})
}
