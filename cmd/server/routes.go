package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"wallet-registry.backend/internal/interfaces/http/handlers"
	"wallet-registry.backend/internal/interfaces/http/middleware"
	"wallet-registry.backend/pkg/redis"
)

type routeDeps struct {
	authHandler      *handlers.AuthHandler
	walletHandler    *handlers.WalletHandler
	networkHandler   *handlers.NetworkHandler
	authMiddleware   gin.HandlerFunc
	idempotencyStore *redis.IdempotencyStore
	rateLimit        int
	rateLimitWindow  time.Duration
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/refresh", d.authHandler.Refresh)
		}

		// Network routes (public)
		v1.GET("/networks", d.networkHandler.ListNetworks)

		// Wallet registry routes (protected). Mutations honor the
		// Idempotency-Key header, scoped per operation.
		wallets := v1.Group("/wallets")
		wallets.Use(d.authMiddleware)
		wallets.Use(middleware.RateLimitMiddleware(d.rateLimit, d.rateLimitWindow))
		{
			wallets.GET("", d.walletHandler.ListWallets)
			wallets.POST("",
				middleware.IdempotencyMiddleware("wallets.add", d.idempotencyStore),
				d.walletHandler.AddWallet)
			wallets.POST("/remove",
				middleware.IdempotencyMiddleware("wallets.remove", d.idempotencyStore),
				d.walletHandler.RemoveWallet)
			wallets.POST("/remove-address",
				middleware.IdempotencyMiddleware("wallets.remove-address", d.idempotencyStore),
				d.walletHandler.RemoveAddress)
			wallets.POST("/set-primary",
				middleware.IdempotencyMiddleware("wallets.set-primary", d.idempotencyStore),
				d.walletHandler.SetPrimaryWallet)
		}
	}
}
