package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/faucet/core"
	"github.com/layer-3/faucet/service"
)

// FaucetHandlers contains HTTP handlers for faucet endpoints
type FaucetHandlers struct {
	faucetService *service.FaucetService
}

// NewFaucetHandlers creates new faucet handlers
func NewFaucetHandlers(faucetService *service.FaucetService) *FaucetHandlers {
	return &FaucetHandlers{
		faucetService: faucetService,
	}
}

// Claim relays a claim for the authenticated wallet
func (h *FaucetHandlers) Claim(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	txHash, err := h.faucetService.Claim(c.Request.Context(), identity)
	if err != nil {
		if errors.Is(err, core.ErrAlreadyClaimed) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "This address already claimed tokens",
				"hasClaimed": true,
			})
			return
		}
		writeFaucetError(c, err, "Failed to claim tokens")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"txHash":  txHash,
		"message": "Tokens claimed successfully",
		"address": identity.Address,
	})
}

// Status returns the faucet state of the authenticated wallet
func (h *FaucetHandlers) Status(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	status, err := h.faucetService.Status(c.Request.Context(), identity, c.Param("address"))
	if err != nil {
		writeFaucetError(c, err, "Failed to get faucet status")
		return
	}

	c.JSON(http.StatusOK, status)
}

// Info returns the public faucet summary
func (h *FaucetHandlers) Info(c *gin.Context) {
	info, err := h.faucetService.Info(c.Request.Context())
	if err != nil {
		writeFaucetError(c, err, "Failed to get faucet info")
		return
	}

	c.JSON(http.StatusOK, info)
}

// Users returns a page of wallets that claimed
func (h *FaucetHandlers) Users(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	users, err := h.faucetService.Users(c.Request.Context(), page, limit)
	if err != nil {
		writeFaucetError(c, err, "Failed to get faucet users")
		return
	}

	c.JSON(http.StatusOK, users)
}

func writeFaucetError(c *gin.Context, err error, upstreamMsg string) {
	switch {
	case errors.Is(err, core.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address format"})
	case errors.Is(err, core.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized to access this information"})
	case errors.Is(err, core.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": upstreamMsg})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
