package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/SaganOrg/command-center-sub001/internal/auth/credentials"
	"github.com/SaganOrg/command-center-sub001/internal/auth/handler"
	"github.com/SaganOrg/command-center-sub001/internal/auth/provider"
	"github.com/SaganOrg/command-center-sub001/internal/auth/provider/google"
	"github.com/SaganOrg/command-center-sub001/internal/config"
	"github.com/SaganOrg/command-center-sub001/internal/middleware"
	"github.com/SaganOrg/command-center-sub001/internal/policy"
	"github.com/SaganOrg/command-center-sub001/internal/profile"
	"github.com/SaganOrg/command-center-sub001/internal/session"

	"github.com/gin-gonic/gin"
)

// pageRoutes are the gated navigation surfaces. The pages themselves
// are stubs; rendering is not this service's job.
var pageRoutes = []string{
	"/dashboard",
	"/profile",
	"/voice",
	"/projects",
	"/settings",
	"/admin",
	"/reports",
	"/attachments",
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	sessionResolver := session.NewResolver(sessionStore)
	profileStore := profile.NewPGStore(infra.DB)
	credentialService := credentials.NewService(infra.DB, profileStore)

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(
		googleProvider,
	)

	authHandler := handler.NewHandler(
		registry,
		sessionStore,
		profileStore,
		credentialService,
	)

	interceptor := middleware.NewInterceptor(sessionResolver, profileStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// The interceptor sees every navigation; its path classifier lets
	// public routes (and the OAuth callback) straight through.
	router.Use(middleware.GinIntercept(interceptor))

	// ----------------------------
	// Auth Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Login page: the reason code from access denials is echoed for
	// display. An already-approved session is allowed to see it.
	router.GET(policy.LoginPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"page":  "login",
			"error": c.Query("error"),
		})
	})

	// ----------------------------
	// Gated Page Stubs
	// ----------------------------

	for _, route := range pageRoutes {
		page := strings.TrimPrefix(route, "/")
		router.GET(route, func(c *gin.Context) {
			userID, _ := middleware.UserIDFromContext(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{
				"page":    page,
				"user_id": userID,
			})
		})
	}

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
