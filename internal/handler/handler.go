package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"registry-auth/internal/auth"
	"registry-auth/internal/logger"
	"registry-auth/internal/provider"
	"registry-auth/internal/session"
	"registry-auth/internal/token"
)

type Handler struct {
	providers   *provider.Registry
	secret      []byte
	tokenTTL    time.Duration
	revocations session.RevocationStore // nil when no revocation store is configured
}

func NewHandler(
	registry *provider.Registry,
	secret []byte,
	tokenTTL time.Duration,
	revocations session.RevocationStore,
) *Handler {
	return &Handler{
		providers:   registry,
		secret:      secret,
		tokenTTL:    tokenTTL,
		revocations: revocations,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/login/:provider", h.Login)
	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
	r.POST("/auth/logout", h.Logout)
}

func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.OAuth(providerName)
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

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.OAuth(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "invalid state",
		})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("oauth callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oauth callback missing code and error", nil)
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	codeVerifier := getPKCEVerifier(c)
	if codeVerifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "missing pkce verifier",
		})
		return
	}

	identity, err := p.ExchangeCode(
		c.Request.Context(),
		code,
		codeVerifier,
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	h.issueSession(c, identity)
}

// issueSession is the single sign-in point for every provider: it runs
// stage one of the augmentation pipeline (identity -> token) and hands
// the signed token to the client.
func (h *Handler) issueSession(c *gin.Context, identity *auth.Identity) {
	signed, err := token.Issue(identity, h.secret, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to create session",
		})
		return
	}

	session.SetCookie(c.Writer, signed, time.Now().Add(h.tokenTTL), session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("login success", map[string]any{
		"provider": identity.Provider,
		"admin":    identity.IsAdmin,
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "authenticated",
	})
}

func (h *Handler) Logout(c *gin.Context) {

	// Best effort: revoke the token so it dies before its natural
	// expiry, then clear the cookie either way.
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" && h.revocations != nil {
		if claims, err := token.Verify(cookie.Value, h.secret); err == nil && claims.ExpiresAt != nil {
			_ = h.revocations.Revoke(
				c.Request.Context(),
				claims.ID,
				claims.ExpiresAt.Time,
			)
		}
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Status(http.StatusNoContent)
}
