package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// Message issues a challenge for the wallet to sign
func (h *AuthHandlers) Message(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address required"})
		return
	}

	challenge, err := h.authService.CreateChallenge(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address format"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": challenge.Message(),
		"nonce":   challenge.Nonce,
	})
}

// SignIn exchanges a signed challenge for a bearer token
func (h *AuthHandlers) SignIn(c *gin.Context) {
	var req struct {
		Signature string `json:"signature" binding:"required"`
		Nonce     string `json:"nonce" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature and nonce required"})
		return
	}

	token, session, err := h.authService.SignIn(c.Request.Context(), req.Nonce, req.Signature)
	if err != nil {
		statusCode := http.StatusUnauthorized
		errorMsg := "Authentication failed"

		// Expired and consumed challenges look the same to the client.
		switch {
		case errors.Is(err, core.ErrChallengeNotFound), errors.Is(err, core.ErrChallengeExpired):
			errorMsg = "Challenge not found or expired"
		case errors.Is(err, core.ErrInvalidSignature):
			errorMsg = "Invalid signature"
		}

		c.JSON(statusCode, gin.H{"error": errorMsg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"address": session.Address,
		"success": true,
	})
}

// Verify reports whether the presented bearer token is valid
func (h *AuthHandlers) Verify(c *gin.Context) {
	session, err := h.authService.ValidateToken(c.Request.Context(), bearerToken(c))
	if err != nil {
		if errors.Is(err, core.ErrMissingCredential) {
			c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Token required"})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"valid": false, "error": "Invalid or expired token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":   true,
		"address": session.Address,
		"chainId": session.ChainID,
	})
}
