package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	tokenUsecases "github.com/filegate-io/filegate/internal/application/token/usecases"
	"github.com/filegate-io/filegate/internal/infrastructure/cache"
	"github.com/filegate-io/filegate/internal/infrastructure/config"
	"github.com/filegate-io/filegate/internal/infrastructure/database"
	"github.com/filegate-io/filegate/internal/infrastructure/repository"
	"github.com/filegate-io/filegate/internal/shared/logger"
)

var env string

// NewCommand builds the one-shot cleanup command: the same sweep the in-server
// scheduler runs, for cron-driven deployments.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Expire overdue tokens and delete old inactive ones",
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	db := database.Get()
	tokenRepo := repository.NewTokenRepository(db, log)
	settingRepo := repository.NewSettingRepository(db, log)
	settings := cache.NewCachedSettingProvider(settingRepo, time.Minute, log)

	cleanupUC := tokenUsecases.NewCleanupTokensUseCase(tokenRepo, settings, log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := cleanupUC.Execute(ctx)
	if err != nil {
		log.Errorw("cleanup failed", "error", err)
		return fmt.Errorf("cleanup failed: %w", err)
	}

	fmt.Printf("Cleanup finished: %d expired, %d deleted\n", result.Expired, result.Deleted)
	return nil
}
