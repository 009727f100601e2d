package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"registry-auth/internal/logger"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles credential sign-in. The response never reveals which
// part of the credentials was wrong, and a registry outage is reported
// as service unavailability, not as a rejection.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	p, err := h.providers.Credential(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown credential provider"})
		return
	}

	identity, err := p.Authorize(
		c.Request.Context(),
		req.Username,
		req.Password,
	)

	if err != nil {
		logger.Error("credential backend unavailable", map[string]any{
			"provider": p.Name(),
			"error":    err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "authentication service unavailable",
		})
		return
	}

	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	h.issueSession(c, identity)
}
