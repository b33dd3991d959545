package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/filegate-io/filegate/internal/application/access"
	tokenUsecases "github.com/filegate-io/filegate/internal/application/token/usecases"
	"github.com/filegate-io/filegate/internal/infrastructure/auth"
	"github.com/filegate-io/filegate/internal/infrastructure/botverify"
	"github.com/filegate-io/filegate/internal/infrastructure/cache"
	"github.com/filegate-io/filegate/internal/infrastructure/config"
	"github.com/filegate-io/filegate/internal/infrastructure/database"
	"github.com/filegate-io/filegate/internal/infrastructure/delivery"
	"github.com/filegate-io/filegate/internal/infrastructure/hostauth"
	"github.com/filegate-io/filegate/internal/infrastructure/migration"
	"github.com/filegate-io/filegate/internal/infrastructure/repository"
	"github.com/filegate-io/filegate/internal/infrastructure/scheduler"
	httpRouter "github.com/filegate-io/filegate/internal/interfaces/http"
	"github.com/filegate-io/filegate/internal/interfaces/http/handlers"
	"github.com/filegate-io/filegate/internal/interfaces/http/middleware"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

const settingsCacheTTL = 30 * time.Second

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the filegate HTTP server with specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production environment - this is not recommended!")
		}
		manager := migration.NewManager(env)
		if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		// The DNS cache degrades to misses without redis; keep serving.
		log.Warnw("redis unavailable, bot verification will run uncached", "error", err)
	}

	db := database.Get()
	tokenRepo := repository.NewTokenRepository(db, log)
	resourceRepo := repository.NewResourceRepository(db, log)
	accountRepo := repository.NewAccountRepository(db, log)
	settingRepo := repository.NewSettingRepository(db, log)

	settings := cache.NewCachedSettingProvider(settingRepo, settingsCacheTTL, log)
	dnsCache := cache.NewRedisDNSCache(redisClient, log)
	botVerifier := botverify.NewVerifier(
		nil,
		dnsCache,
		settings,
		time.Duration(cfg.Bot.ResolverTimeoutMS)*time.Millisecond,
		log,
	)

	validateUC := tokenUsecases.NewValidateTokenUseCase(tokenRepo, log)
	consumeUC := tokenUsecases.NewConsumeTokenUseCase(tokenRepo, log)
	cleanupUC := tokenUsecases.NewCleanupTokensUseCase(tokenRepo, settings, log)

	evaluator := access.NewEvaluator()
	gateway := access.NewGateway(resourceRepo, settings, evaluator, botVerifier, validateUC, consumeUC, tokenRepo, log)

	authenticator := hostauth.NewCookieAuthenticator(accountRepo, cfg.Host, log)
	dispatcher := delivery.NewDispatcher(cfg.Uploads, log)
	jwtService := auth.NewJWTService(cfg.Admin.JWTSecret, cfg.Admin.JWTExpMinutes)

	mediaHandler := handlers.NewMediaHandler(authenticator, gateway, dispatcher, log)
	tokenHandler := handlers.NewTokenHandler(
		tokenUsecases.NewIssueTokenUseCase(tokenRepo, resourceRepo, settings, cfg.Uploads.BaseURL, log),
		tokenUsecases.NewListTokensUseCase(tokenRepo, log),
		tokenUsecases.NewRevokeTokenUseCase(tokenRepo, log),
		tokenUsecases.NewReinstateTokenUseCase(tokenRepo, resourceRepo, settings, log),
		tokenUsecases.NewUpdateMaxUsesUseCase(tokenRepo, resourceRepo, log),
		tokenUsecases.NewDeleteTokenUseCase(tokenRepo, log),
		cleanupUC,
		log,
	)
	adminAuthHandler := handlers.NewAdminAuthHandler(cfg.Admin, jwtService, log)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	router := httpRouter.NewRouter(mediaHandler, tokenHandler, adminAuthHandler, authMiddleware, log)
	router.SetupRoutes()

	cleanupScheduler := scheduler.NewTokenCleanupScheduler(cleanupUC, log)
	schedulerCtx, cancelScheduler := context.WithCancel(context.Background())
	defer cancelScheduler()
	cleanupScheduler.Start(schedulerCtx)
	defer cleanupScheduler.Stop()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // large file streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
