package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ouk-server-go/internal/auth"
	"ouk-server-go/internal/config"
	"ouk-server-go/internal/handlers"
	"ouk-server-go/internal/middleware"
	"ouk-server-go/internal/platform"
	"ouk-server-go/internal/repositories"
	"ouk-server-go/internal/services"
)

// NewRouter wires the HTTP surface
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	tokenMaker *auth.TokenMaker,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	gameHandler *handlers.GameHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", healthHandler.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/leaderboard", leaderboardHandler.Top)
		api.GET("/guilds", leaderboardHandler.Guilds)

		authed := api.Group("/")
		authed.Use(middleware.AuthMiddleware(tokenMaker))
		{
			authed.GET("/profile", profileHandler.GetProfile)
			authed.PUT("/profile", profileHandler.UpdateProfile)
			authed.POST("/games/result", gameHandler.SubmitResult)
		}
	}

	return router
}

func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}
	if cfg.UsingDefaultKey {
		logger.Warn("JWT_SECRET_KEY not set; using the built-in development key. " +
			"Tokens signed with this key are forgeable; do not run this in production.")
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Account store: Postgres when configured, in-memory otherwise
	var store repositories.AccountStore
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		db, err = platform.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		if err := platform.EnsureSchema(ctx, db); err != nil {
			logger.Fatal("ensuring schema", zap.Error(err))
		}
		store = repositories.NewSQLAccountStore(db)
		logger.Info("using postgres account store")
	} else {
		store = repositories.NewMemoryAccountStore()
		logger.Warn("DATABASE_URL not set; account data is held in memory and lost on restart")
	}

	// Leaderboard cache: optional
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = platform.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatal("connecting to redis", zap.Error(err))
		}
		defer rdb.Close()
		logger.Info("leaderboard cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	tokenMaker := auth.NewTokenMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	// Services
	authService := services.NewAuthService(store, tokenMaker)
	accountService := services.NewAccountService(store)
	ledgerService := services.NewLedgerService(store)
	leaderboardService := services.NewLeaderboardService(store, rdb, logger)

	// Handlers
	router := NewRouter(
		cfg,
		logger,
		tokenMaker,
		handlers.NewAuthHandler(authService),
		handlers.NewProfileHandler(accountService),
		handlers.NewGameHandler(ledgerService, leaderboardService),
		handlers.NewLeaderboardHandler(leaderboardService),
		handlers.NewHealthHandler(db, rdb),
	)

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.ServerAddress))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
}
