package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"registry-auth/internal/admin"
	"registry-auth/internal/config"
	"registry-auth/internal/handler"
	"registry-auth/internal/logger"
	"registry-auth/internal/middleware"
	"registry-auth/internal/provider"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	if cfg.TokenSecret == "" {
		return nil, nil, errors.New("TOKEN_SECRET is required")
	}
	secret := []byte(cfg.TokenSecret)

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	allowlist := admin.ParseAllowlist(cfg.AdminEmails)

	providers := provider.Assemble(ctx, cfg, allowlist)
	if providers.Empty() {
		logger.Warn("no identity provider configured, nobody can sign in", nil)
	}

	authHandler := handler.NewHandler(
		providers,
		secret,
		cfg.TokenTTL,
		infra.Revocations,
	)

	authMiddleware := middleware.NewAuthMiddleware(secret, infra.Revocations)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	api.GET("/me", func(c *gin.Context) {
		sess, ok := middleware.SessionFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.JSON(200, sess)
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if infra.Redis != nil {
			return infra.Redis.Close()
		}
		return nil
	}, nil
}
