package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/faucet/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, faucetService *service.FaucetService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	authHandlers := NewAuthHandlers(authService)
	faucetHandlers := NewFaucetHandlers(faucetService)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/message", authHandlers.Message)
		auth.POST("/signin", authHandlers.SignIn)
		auth.GET("/verify", authHandlers.Verify)
	}

	faucet := router.Group("/faucet")
	{
		faucet.GET("/info", faucetHandlers.Info)
		faucet.GET("/users", faucetHandlers.Users)

		protected := faucet.Group("")
		protected.Use(AuthMiddleware(authService))
		protected.POST("/claim", faucetHandlers.Claim)
		protected.GET("/status/:address", faucetHandlers.Status)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return router
}
