// Command statussync reports how many talent and company profiles disagree
// with their user's approval status. It prints the two totals and exits 1
// when the check cannot run.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/goodhive/onboarding-service/internal/config"
	"github.com/goodhive/onboarding-service/internal/observability"
	"github.com/goodhive/onboarding-service/internal/persistence"
	"github.com/goodhive/onboarding-service/internal/repository"
	"github.com/goodhive/onboarding-service/internal/service"
)

func main() {
	cfg, logger, err := setup()
	if err != nil {
		// no logger yet
		log.Printf("statussync: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	err = run(ctx, cfg, logger, os.Stdout)
	cancel()
	if err != nil {
		logger.Error("status sync check failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// setup loads configuration and builds a logger that keeps stdout free for
// the report.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Logger.Output = "stderr"
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()
	if pg.PoolHandle() == nil {
		return errors.New("POSTGRES_DSN is required")
	}

	report, err := service.NewStatusSyncService(repository.NewStatusSyncRepository(pg.PoolHandle()), logger).Check(ctx)
	if err != nil {
		return err
	}
	return printReport(out, report)
}

func printReport(out io.Writer, report *service.SyncReport) error {
	_, err := fmt.Fprintf(out, "%d\n%d\n", report.Talents.Total(), report.Companies.Total())
	return err
}
