package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"wallet-registry.backend/internal/config"
	"wallet-registry.backend/internal/domain/entities"
	domainRepos "wallet-registry.backend/internal/domain/repositories"
	"wallet-registry.backend/internal/infrastructure/blockchain"
	"wallet-registry.backend/internal/infrastructure/repositories"
	"wallet-registry.backend/internal/interfaces/http/handlers"
	"wallet-registry.backend/internal/interfaces/http/middleware"
	"wallet-registry.backend/internal/usecases"
	"wallet-registry.backend/pkg/jwt"
	"wallet-registry.backend/pkg/logger"
	"wallet-registry.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := repositories.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	userRepo := repositories.NewUserRepository(db)
	networkRepo := repositories.NewNetworkRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	uow := repositories.NewUnitOfWork(db)

	if err := seedNetworks(context.Background(), networkRepo, cfg.Registry.DefaultNetworkID); err != nil {
		return fmt.Errorf("failed to seed networks: %w", err)
	}

	var resolver usecases.NameResolver
	if cfg.Registry.EthereumRPCURL != "" {
		ens, err := blockchain.NewENSResolver(cfg.Registry.EthereumRPCURL)
		if err != nil {
			logger.Warn(context.Background(), "ENS resolver unavailable, names will be rejected", zap.Error(err))
		} else {
			resolver = ens
		}
	}

	planLimits := map[string]int{
		entities.PlanFree: cfg.Registry.FreePlanAddressLimit,
		entities.PlanPro:  cfg.Registry.ProPlanAddressLimit,
	}

	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	walletUsecase := usecases.NewWalletUsecase(walletRepo, networkRepo, userRepo, uow, resolver, planLimits)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	registerRoutes(r, routeDeps{
		authHandler:      handlers.NewAuthHandler(authUsecase),
		walletHandler:    handlers.NewWalletHandler(walletUsecase),
		networkHandler:   handlers.NewNetworkHandler(networkRepo),
		authMiddleware:   middleware.AuthMiddleware(jwtService),
		idempotencyStore: redis.NewIdempotencyStore(),
		rateLimit:        cfg.Registry.RateLimitRequests,
		rateLimitWindow:  cfg.Registry.RateLimitWindow,
	})

	logger.Info(context.Background(), "Server starting", zap.String("port", cfg.Server.Port))
	return runServer(r, cfg.Server.Port)
}

// seedNetworks upserts the fixed supported-network set. The default network
// is configurable; everything else keeps its seeded flags.
func seedNetworks(ctx context.Context, repo domainRepos.NetworkRepository, defaultNetworkID string) error {
	networks := []*entities.Network{
		{ID: "eip155:1", Name: "Ethereum", Symbol: "ETH", IsActive: true},
		{ID: "eip155:10", Name: "OP Mainnet", Symbol: "ETH", IsActive: true},
		{ID: "eip155:56", Name: "BNB Smart Chain", Symbol: "BNB", IsActive: true},
		{ID: "eip155:137", Name: "Polygon", Symbol: "POL", IsActive: true},
		{ID: "eip155:8453", Name: "Base", Symbol: "ETH", IsActive: true},
		{ID: "eip155:42161", Name: "Arbitrum One", Symbol: "ETH", IsActive: true},
	}

	for _, n := range networks {
		n.IsDefault = n.ID == defaultNetworkID
		if err := repo.Save(ctx, n); err != nil {
			return err
		}
	}
	return nil
}
